package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// DecodeList accepts either a bare JSON array or a {"results": [...]} envelope.
func DecodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("api: decode list: %w", err)
		}
		return items, nil
	case '{':
		var envelope struct {
			Results *[]T `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("api: decode list envelope: %w", err)
		}
		if envelope.Results == nil {
			return nil, fmt.Errorf("api: list envelope has no results field")
		}
		return *envelope.Results, nil
	default:
		return nil, fmt.Errorf("api: unexpected list payload starting with %q", trimmed[0])
	}
}

// ResourceConfig describes the REST surface of one entity.
type ResourceConfig struct {
	// Path is the collection path, e.g. "/coupons/".
	Path string
	// UpdateMethod is PUT unless the resource only accepts PATCH.
	UpdateMethod string
	// DeleteQuery is appended to every DELETE (e.g. cascade=true).
	DeleteQuery url.Values
	// ReadOnly disables Create/Update/Delete; NoUpdate and NoDelete disable one verb.
	ReadOnly bool
	NoCreate bool
	NoUpdate bool
	NoDelete bool
	// ActionMethods overrides the POST default for named actions.
	ActionMethods map[string]string
}

// Resource adapts one collection endpoint to backoffice.Remote.
type Resource[T backoffice.Identifiable[ID], ID comparable] struct {
	client *Client
	cfg    ResourceConfig
}

// NewResource binds a collection path to the client.
func NewResource[T backoffice.Identifiable[ID], ID comparable](client *Client, cfg ResourceConfig) *Resource[T, ID] {
	cfg.Path = "/" + strings.Trim(cfg.Path, "/") + "/"
	if cfg.UpdateMethod == "" {
		cfg.UpdateMethod = http.MethodPut
	}
	return &Resource[T, ID]{client: client, cfg: cfg}
}

var _ backoffice.Remote[identified, string] = (*Resource[identified, string])(nil)

type identified struct{ ID string }

func (i identified) ItemID() string { return i.ID }

// Path returns the collection path.
func (r *Resource[T, ID]) Path() string { return r.cfg.Path }

// ItemPath returns the path of a single record.
func (r *Resource[T, ID]) ItemPath(id ID, segments ...string) string {
	path := r.cfg.Path + url.PathEscape(fmt.Sprint(id)) + "/"
	for _, segment := range segments {
		path += strings.Trim(segment, "/") + "/"
	}
	return path
}

// List fetches the collection, filtered by query parameters.
func (r *Resource[T, ID]) List(ctx context.Context, filter backoffice.Filter) ([]T, error) {
	data, err := r.client.roundTrip(ctx, http.MethodGet, r.cfg.Path, filter.Values(), nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[T](data)
}

// Get fetches one record.
func (r *Resource[T, ID]) Get(ctx context.Context, id ID) (T, error) {
	var item T
	err := r.client.Get(ctx, r.ItemPath(id), nil, &item)
	return item, err
}

// Create POSTs a new record and returns the persisted version.
func (r *Resource[T, ID]) Create(ctx context.Context, payload backoffice.Payload) (T, error) {
	var item T
	if r.cfg.ReadOnly || r.cfg.NoCreate {
		return item, fmt.Errorf("%w: create %s", backoffice.ErrUnsupported, r.cfg.Path)
	}
	err := r.client.Do(ctx, http.MethodPost, r.cfg.Path, nil, payload, &item)
	return item, err
}

// Update PUTs (or PATCHes) a record and returns the persisted version.
func (r *Resource[T, ID]) Update(ctx context.Context, id ID, payload backoffice.Payload) (T, error) {
	var item T
	if r.cfg.ReadOnly || r.cfg.NoUpdate {
		return item, fmt.Errorf("%w: update %s", backoffice.ErrUnsupported, r.cfg.Path)
	}
	err := r.client.Do(ctx, r.cfg.UpdateMethod, r.ItemPath(id), nil, payload, &item)
	return item, err
}

// Delete removes a record.
func (r *Resource[T, ID]) Delete(ctx context.Context, id ID) error {
	if r.cfg.ReadOnly || r.cfg.NoDelete {
		return fmt.Errorf("%w: delete %s", backoffice.ErrUnsupported, r.cfg.Path)
	}
	return r.client.Do(ctx, http.MethodDelete, r.ItemPath(id), r.cfg.DeleteQuery, nil, nil)
}

// Action invokes a custom endpoint such as /coupons/{id}/deactivate/.
func (r *Resource[T, ID]) Action(ctx context.Context, id ID, action string, payload backoffice.Payload) (backoffice.ActionResult, error) {
	method := http.MethodPost
	if m, ok := r.cfg.ActionMethods[action]; ok {
		method = m
	}
	var body any
	if payload != nil {
		body = payload
	} else if method != http.MethodGet {
		body = backoffice.Payload{}
	}
	result := backoffice.ActionResult{}
	if err := r.client.Do(ctx, method, r.ItemPath(id, action), nil, body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Sub lists a nested collection such as /organizations/{id}/members/.
func Sub[T any, ID comparable](ctx context.Context, client *Client, collection string, id ID, name string) ([]T, error) {
	path := "/" + strings.Trim(collection, "/") + "/" + url.PathEscape(fmt.Sprint(id)) + "/" + strings.Trim(name, "/") + "/"
	data, err := client.roundTrip(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[T](data)
}
