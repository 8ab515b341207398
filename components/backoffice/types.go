package backoffice

import (
	"context"
	"net/url"
)

// Identifiable is implemented by every backend record a controller manages.
type Identifiable[ID comparable] interface {
	ItemID() ID
}

// Filter parameterizes list calls (status, staff type, ...). Empty values are dropped.
type Filter map[string]string

// Values converts the filter into query parameters.
func (f Filter) Values() url.Values {
	values := url.Values{}
	for key, value := range f {
		if value == "" {
			continue
		}
		values.Set(key, value)
	}
	return values
}

// Payload is the wire body produced by a Form at submit time.
type Payload map[string]any

// ActionResult carries the decoded body returned by a custom action endpoint.
type ActionResult map[string]any

// Int reads a numeric field from the result, tolerating JSON float decoding.
func (r ActionResult) Int(key string) int {
	switch v := r[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

// String reads a string field from the result.
func (r ActionResult) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Remote is the REST contract a Controller drives. Implementations return
// ErrUnsupported for verbs the backend does not expose for the resource.
type Remote[T Identifiable[ID], ID comparable] interface {
	List(ctx context.Context, filter Filter) ([]T, error)
	Create(ctx context.Context, payload Payload) (T, error)
	Update(ctx context.Context, id ID, payload Payload) (T, error)
	Delete(ctx context.Context, id ID) error
	Action(ctx context.Context, id ID, action string, payload Payload) (ActionResult, error)
}

// Mode identifies what the focused dialog is doing.
type Mode int

const (
	ModeNone Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "none"
	}
}

// Phase is the controller lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseDialogOpen
	PhaseSubmitting
	PhaseConfirming
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseDialogOpen:
		return "dialog_open"
	case PhaseSubmitting:
		return "submitting"
	case PhaseConfirming:
		return "confirming"
	default:
		return "idle"
	}
}
