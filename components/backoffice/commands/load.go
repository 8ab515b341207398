package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// LoadInput refreshes a resource list. A nil Filter keeps the last one.
type LoadInput struct {
	Resource string            `json:"resource"`
	Filter   backoffice.Filter `json:"filter,omitempty"`
}

// LoadCommand reloads a screen's list from the backend.
type LoadCommand struct {
	resolver  Resolver
	telemetry Telemetry
}

// NewLoadCommand builds the command.
func NewLoadCommand(resolver Resolver, telemetry Telemetry) *LoadCommand {
	return &LoadCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoadInput] = (*LoadCommand)(nil)

// Execute loads the list.
func (c *LoadCommand) Execute(ctx context.Context, msg LoadInput) error {
	res, err := resolve(c.resolver, msg.Resource)
	if err != nil {
		return err
	}
	if err := res.Load(ctx, msg.Filter); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "backoffice.command.load", map[string]any{"resource": msg.Resource})
	return nil
}
