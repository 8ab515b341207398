package backoffice

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrBusy is returned when a mutation is already in flight on the controller.
	ErrBusy = errors.New("backoffice: a submission is already in progress")
	// ErrNoFocus is returned by Submit/SetField when no dialog is open.
	ErrNoFocus = errors.New("backoffice: no item is focused")
	// ErrClosed is returned once the controller lifetime has ended.
	ErrClosed = errors.New("backoffice: controller closed")
	// ErrUnsupported is returned by remotes for verbs a resource does not expose.
	ErrUnsupported = errors.New("backoffice: operation not supported by resource")
	// ErrUnknownAction is returned for custom actions that were never registered.
	ErrUnknownAction = errors.New("backoffice: unknown action")
	// ErrUnknownDiscountKind is returned by DiscountDisplay for kinds it cannot render.
	ErrUnknownDiscountKind = errors.New("backoffice: unknown discount kind")
)

// ValidationError lists client-side field problems. It blocks submission and is
// surfaced inline on the form, never through the feedback channel.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "backoffice: validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, e.Fields[key]))
	}
	return "backoffice: validation failed (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = msg
}

func (e *ValidationError) empty() bool {
	return e == nil || len(e.Fields) == 0
}

// IsValidation reports whether err carries field validation problems.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// UserMessage picks the text shown to the operator for err. Errors that carry a
// backend supplied message (via a UserMessage method) win over the fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var carrier interface{ UserMessage() string }
	if errors.As(err, &carrier) {
		if msg := strings.TrimSpace(carrier.UserMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}
