package commands

import "context"

// Telemetry receives one event per completed command, named
// "backoffice.command.<verb>" with the resource key in the payload.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type discardTelemetry struct{}

func (discardTelemetry) Record(context.Context, string, map[string]any) {}

// normalizeTelemetry lets callers pass nil when events are not wanted.
func normalizeTelemetry(t Telemetry) Telemetry {
	if t != nil {
		return t
	}
	return discardTelemetry{}
}
