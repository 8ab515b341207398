package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// RemoveInput identifies the record to delete.
type RemoveInput struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

// RemoveCommand deletes a record through the screen's confirmation gate.
type RemoveCommand struct {
	resolver  Resolver
	telemetry Telemetry
}

// NewRemoveCommand builds the command.
func NewRemoveCommand(resolver Resolver, telemetry Telemetry) *RemoveCommand {
	return &RemoveCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveInput] = (*RemoveCommand)(nil)

// Execute removes the record.
func (c *RemoveCommand) Execute(ctx context.Context, msg RemoveInput) error {
	if msg.ID == "" {
		return errors.New("remove command requires id")
	}
	res, err := resolve(c.resolver, msg.Resource)
	if err != nil {
		return err
	}
	if err := res.RemoveID(ctx, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "backoffice.command.remove", map[string]any{"resource": msg.Resource, "id": msg.ID})
	return nil
}
