package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger writing to w. format is "json" or "console".
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("logging: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	out := w
	switch format {
	case "json":
	case "console", "":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", format)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// Setup installs the process wide logger on stderr so stdout stays clean for
// command output.
func Setup(level, format string) (zerolog.Logger, error) {
	logger, err := New(os.Stderr, level, format)
	if err != nil {
		return logger, err
	}
	log.Logger = logger
	return logger, nil
}

// Telemetry writes controller and command events to a logger at debug level.
type Telemetry struct {
	logger zerolog.Logger
}

// NewTelemetry builds a Telemetry over logger.
func NewTelemetry(logger zerolog.Logger) *Telemetry {
	return &Telemetry{logger: logger.With().Str("component", "telemetry").Logger()}
}

func (t *Telemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.logger.Debug().Str("event", event).Fields(payload).Msg("telemetry")
}
