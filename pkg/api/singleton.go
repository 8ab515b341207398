package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// Singleton adapts a one-record endpoint (GET/PUT on the same path) to
// backoffice.Remote so it can be driven by a controller. List yields one item.
type Singleton[T backoffice.Identifiable[ID], ID comparable] struct {
	client *Client
	path   string
}

// NewSingleton binds path, e.g. "/payment-settings/".
func NewSingleton[T backoffice.Identifiable[ID], ID comparable](client *Client, path string) *Singleton[T, ID] {
	return &Singleton[T, ID]{client: client, path: path}
}

func (s *Singleton[T, ID]) List(ctx context.Context, _ backoffice.Filter) ([]T, error) {
	var item T
	if err := s.client.Get(ctx, s.path, nil, &item); err != nil {
		return nil, err
	}
	return []T{item}, nil
}

func (s *Singleton[T, ID]) Create(context.Context, backoffice.Payload) (T, error) {
	var zero T
	return zero, fmt.Errorf("%w: create %s", backoffice.ErrUnsupported, s.path)
}

func (s *Singleton[T, ID]) Update(ctx context.Context, _ ID, payload backoffice.Payload) (T, error) {
	var item T
	err := s.client.Do(ctx, http.MethodPut, s.path, nil, payload, &item)
	return item, err
}

func (s *Singleton[T, ID]) Delete(context.Context, ID) error {
	return fmt.Errorf("%w: delete %s", backoffice.ErrUnsupported, s.path)
}

func (s *Singleton[T, ID]) Action(context.Context, ID, string, backoffice.Payload) (backoffice.ActionResult, error) {
	return nil, fmt.Errorf("%w: actions on %s", backoffice.ErrUnsupported, s.path)
}
