package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// ActionInput invokes a named custom action on one record.
type ActionInput struct {
	Resource string             `json:"resource"`
	ID       string             `json:"id"`
	Action   string             `json:"action"`
	Payload  backoffice.Payload `json:"payload,omitempty"`
}

// ActionCommand wraps the screen's custom actions (deactivate, send, approve).
type ActionCommand struct {
	resolver  Resolver
	telemetry Telemetry
	onResult  func(backoffice.ActionResult)
}

// NewActionCommand builds the command. onResult receives the decoded response
// and may be nil.
func NewActionCommand(resolver Resolver, telemetry Telemetry, onResult func(backoffice.ActionResult)) *ActionCommand {
	return &ActionCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry), onResult: onResult}
}

var _ gocommand.Commander[ActionInput] = (*ActionCommand)(nil)

// Execute runs the action.
func (c *ActionCommand) Execute(ctx context.Context, msg ActionInput) error {
	if msg.ID == "" || msg.Action == "" {
		return errors.New("action command requires id and action")
	}
	res, err := resolve(c.resolver, msg.Resource)
	if err != nil {
		return err
	}
	result, err := res.DoID(ctx, msg.ID, msg.Action, msg.Payload)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "backoffice.command.action", map[string]any{
		"resource": msg.Resource,
		"id":       msg.ID,
		"action":   msg.Action,
	})
	if c.onResult != nil {
		c.onResult(result)
	}
	return nil
}
