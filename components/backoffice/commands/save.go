package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// FieldValue is one raw draft assignment. Assignments are applied in order so
// a discriminator set first resets its dependents before they are filled.
type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SaveInput creates a record when ID is empty and edits it otherwise.
type SaveInput struct {
	Resource string       `json:"resource"`
	ID       string       `json:"id,omitempty"`
	Fields   []FieldValue `json:"fields"`
}

// SaveCommand runs a full dialog round trip: open, fill, submit. A failed
// submit leaves the draft open with its inline errors.
type SaveCommand struct {
	resolver  Resolver
	telemetry Telemetry
	onSaved   func(record any)
}

// NewSaveCommand builds the command. onSaved receives the persisted record
// and may be nil.
func NewSaveCommand(resolver Resolver, telemetry Telemetry, onSaved func(record any)) *SaveCommand {
	return &SaveCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry), onSaved: onSaved}
}

var _ gocommand.Commander[SaveInput] = (*SaveCommand)(nil)

// Execute opens the dialog, applies the fields and submits.
func (c *SaveCommand) Execute(ctx context.Context, msg SaveInput) error {
	res, err := resolve(c.resolver, msg.Resource)
	if err != nil {
		return err
	}
	mode := "create"
	if msg.ID == "" {
		err = res.OpenCreate(nil)
	} else {
		mode = "update"
		err = res.OpenEditID(ctx, msg.ID)
	}
	if err != nil {
		return err
	}
	for _, field := range msg.Fields {
		if field.Name == "" {
			_ = res.Cancel()
			return errors.New("save command requires field names")
		}
		if err := res.SetField(field.Name, field.Value); err != nil {
			_ = res.Cancel()
			return err
		}
	}
	saved, err := res.SubmitDraft(ctx)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "backoffice.command.save", map[string]any{
		"resource": msg.Resource,
		"mode":     mode,
		"fields":   len(msg.Fields),
	})
	if c.onSaved != nil {
		c.onSaved(saved)
	}
	return nil
}
