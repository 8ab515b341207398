package admin

import (
	"context"
	"fmt"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// Entry is the id-as-text view of a screen used by the CLI and commands,
// which address records by the string an operator typed.
type Entry interface {
	Key() string
	Name() string
	Load(ctx context.Context, filter backoffice.Filter) error
	Count() int
	Records() []any
	Table() Table
	Actions() []backoffice.ActionSpec
	Writable() bool

	OpenCreate(defaults map[string]string) error
	OpenEditID(ctx context.Context, id string) error
	SetField(name, raw string) error
	Draft() (map[string]string, map[string]string)
	SubmitDraft(ctx context.Context) (any, error)
	Cancel() error

	RemoveID(ctx context.Context, id string) error
	DoID(ctx context.Context, id, action string, payload backoffice.Payload) (backoffice.ActionResult, error)
	Close()
}

// Table is a rendered list: column headers and one row of cells per record.
type Table struct {
	Columns []string
	Rows    [][]string
	// Status holds the status cell of each row, used for coloring.
	Status []string
}

type entry[T backoffice.Identifiable[ID], ID comparable] struct {
	key      string
	ctrl     *backoffice.Controller[T, ID]
	parseID  func(string) (ID, error)
	table    func(items []T) Table
	writable bool
	// guard vets a custom action before it reaches the controller.
	guard func(ctx context.Context, id ID, action string, payload backoffice.Payload) error
	// edited runs after a record is focused for editing.
	edited func() error
}

func newEntry[T backoffice.Identifiable[ID], ID comparable](key string, ctrl *backoffice.Controller[T, ID], parseID func(string) (ID, error), table func([]T) Table, writable bool) *entry[T, ID] {
	return &entry[T, ID]{key: key, ctrl: ctrl, parseID: parseID, table: table, writable: writable}
}

func (e *entry[T, ID]) Key() string  { return e.key }
func (e *entry[T, ID]) Name() string { return e.ctrl.Name() }
func (e *entry[T, ID]) Writable() bool {
	return e.writable
}

func (e *entry[T, ID]) Load(ctx context.Context, filter backoffice.Filter) error {
	return e.ctrl.Load(ctx, filter)
}

func (e *entry[T, ID]) Count() int { return len(e.ctrl.Items()) }

func (e *entry[T, ID]) Records() []any {
	items := e.ctrl.Items()
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func (e *entry[T, ID]) Table() Table { return e.table(e.ctrl.Items()) }

func (e *entry[T, ID]) Actions() []backoffice.ActionSpec { return e.ctrl.Actions() }

func (e *entry[T, ID]) OpenCreate(defaults map[string]string) error {
	if !e.writable {
		return fmt.Errorf("%w: %s cannot be created here", backoffice.ErrUnsupported, e.key)
	}
	return e.ctrl.OpenCreate(defaults)
}

func (e *entry[T, ID]) OpenEditID(ctx context.Context, raw string) error {
	id, err := e.parseID(raw)
	if err != nil {
		return err
	}
	item, ok := e.ctrl.Find(id)
	if !ok {
		if err := e.ctrl.Load(ctx, nil); err != nil {
			return err
		}
		if item, ok = e.ctrl.Find(id); !ok {
			return fmt.Errorf("%w: %s %s", ErrNotFound, e.ctrl.Name(), raw)
		}
	}
	if err := e.ctrl.OpenEdit(item); err != nil {
		return err
	}
	if e.edited != nil {
		return e.edited()
	}
	return nil
}

func (e *entry[T, ID]) SetField(name, raw string) error { return e.ctrl.SetField(name, raw) }

func (e *entry[T, ID]) Draft() (map[string]string, map[string]string) {
	focus := e.ctrl.State().Focus
	if focus.Form == nil {
		return nil, nil
	}
	return focus.Form.Values(), focus.Form.Errors()
}

func (e *entry[T, ID]) SubmitDraft(ctx context.Context) (any, error) {
	saved, err := e.ctrl.Submit(ctx)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (e *entry[T, ID]) Cancel() error { return e.ctrl.Cancel() }

func (e *entry[T, ID]) RemoveID(ctx context.Context, raw string) error {
	id, err := e.parseID(raw)
	if err != nil {
		return err
	}
	return e.ctrl.Remove(ctx, id)
}

func (e *entry[T, ID]) DoID(ctx context.Context, raw, action string, payload backoffice.Payload) (backoffice.ActionResult, error) {
	id, err := e.parseID(raw)
	if err != nil {
		return nil, err
	}
	if e.guard != nil {
		if err := e.guard(ctx, id, action, payload); err != nil {
			return nil, err
		}
	}
	return e.ctrl.Do(ctx, id, action, payload)
}

func (e *entry[T, ID]) Close() { e.ctrl.Close() }
