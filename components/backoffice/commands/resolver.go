package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// Resource is the id-as-text surface of one screen that commands drive.
type Resource interface {
	Name() string
	Load(ctx context.Context, filter backoffice.Filter) error
	OpenCreate(defaults map[string]string) error
	OpenEditID(ctx context.Context, id string) error
	SetField(name, raw string) error
	SubmitDraft(ctx context.Context) (any, error)
	Cancel() error
	RemoveID(ctx context.Context, id string) error
	DoID(ctx context.Context, id, action string, payload backoffice.Payload) (backoffice.ActionResult, error)
}

// Resolver maps a resource key ("coupons", "staff") to its screen.
type Resolver interface {
	Resolve(key string) (Resource, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(key string) (Resource, error)

func (f ResolverFunc) Resolve(key string) (Resource, error) { return f(key) }

func resolve(r Resolver, key string) (Resource, error) {
	if r == nil {
		return nil, errors.New("command requires resolver")
	}
	if key == "" {
		return nil, errors.New("command requires resource")
	}
	return r.Resolve(key)
}
