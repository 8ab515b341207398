package admin

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// ErrInvalidTransition is returned when a workflow action does not apply to
// the record's current status.
var ErrInvalidTransition = errors.New("admin: invalid status transition")

// ErrNotFound is returned when a record is not present in the loaded list.
var ErrNotFound = errors.New("admin: record not found")

// Deps are the collaborators shared by every screen.
type Deps struct {
	Feedback  backoffice.Notifier
	Confirmer backoffice.Confirmer
	Telemetry backoffice.Telemetry
	Clock     backoffice.Clock
	// Location interprets typed datetimes; nil means UTC.
	Location *time.Location
	// Currency prefixes fixed amounts; empty means the rupee sign.
	Currency string
}

func (d Deps) normalize() Deps {
	if d.Feedback == nil {
		d.Feedback = backoffice.NewFeedback(backoffice.FeedbackOptions{Clock: d.Clock})
	}
	if d.Clock == nil {
		d.Clock = backoffice.SystemClock()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Currency == "" {
		d.Currency = backoffice.DefaultCurrencySymbol
	}
	return d
}

func controllerOptions[T backoffice.Identifiable[ID], ID comparable](deps Deps, name, plural string, remote backoffice.Remote[T, ID], schema *backoffice.FormSchema, actions ...backoffice.ActionSpec) backoffice.Options[T, ID] {
	return backoffice.Options[T, ID]{
		Name:      name,
		Plural:    plural,
		Remote:    remote,
		Schema:    schema,
		Feedback:  deps.Feedback,
		Confirmer: deps.Confirmer,
		Telemetry: deps.Telemetry,
		Actions:   actions,
	}
}

func parseIntID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("admin: invalid id %q", raw)
	}
	return id, nil
}

func parseStringID(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("admin: id is required")
	}
	return raw, nil
}
