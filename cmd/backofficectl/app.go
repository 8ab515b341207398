package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/components/backoffice/commands"
	"github.com/goliatone/go-backoffice/internal/config"
	"github.com/goliatone/go-backoffice/internal/logging"
	"github.com/goliatone/go-backoffice/pkg/admin"
	"github.com/goliatone/go-backoffice/pkg/api"
	"github.com/goliatone/go-backoffice/pkg/report"
)

const (
	confirmTimeout = 2 * time.Minute
	chartCacheTTL  = 5 * time.Minute
)

type app struct {
	globals     *Globals
	cfg         config.Config
	logger      zerolog.Logger
	telemetry   *logging.Telemetry
	feedback    *backoffice.Feedback
	client      *api.Client
	ws          *admin.Workspace
	sessionPath string
	printer     *printer
	renderer    *report.Renderer
}

func newApp(g *Globals, in io.Reader, out io.Writer) (*app, error) {
	cfg, err := config.Load(g.EnvFile...)
	if err != nil {
		if !g.Demo {
			return nil, err
		}
		cfg = config.Defaults()
	}
	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if g.NoColor || g.Output != "table" {
		color.NoColor = true
	}

	a := &app{
		globals:     g,
		cfg:         cfg,
		logger:      logger,
		telemetry:   logging.NewTelemetry(logger),
		feedback:    backoffice.NewFeedback(backoffice.FeedbackOptions{TTL: cfg.FeedbackTTL}),
		sessionPath: cfg.SessionFile,
		printer:     newPrinter(out, g.Output),
		renderer:    report.New(report.WithCache(report.NewPageCache(chartCacheTTL, nil))),
	}
	if a.sessionPath == "" {
		if a.sessionPath, err = defaultSessionPath(); err != nil {
			return nil, err
		}
	}

	var backend admin.Backend
	if g.Demo {
		backend = admin.NewMemoryBackend(nil)
	} else {
		credentials := api.Chain{api.FileCredentials{Path: a.sessionPath}}
		if cfg.Token != "" {
			credentials = append(api.Chain{api.StaticToken(cfg.Token)}, credentials...)
		}
		a.client, err = api.NewClient(api.Config{
			BaseURL:     cfg.APIURL,
			Credentials: credentials,
			Timeout:     cfg.Timeout,
			Logger:      &logger,
		})
		if err != nil {
			return nil, err
		}
		backend = admin.NewHTTPBackend(a.client)
	}

	confirmer := &promptConfirmer{
		in:      bufio.NewReader(in),
		out:     out,
		yes:     g.Yes,
		timeout: confirmTimeout,
	}
	a.ws, err = admin.NewWorkspace(backend, admin.Deps{
		Feedback:  a.feedback,
		Confirmer: confirmer,
		Telemetry: a.telemetry,
		Location:  cfg.Location(),
		Currency:  cfg.Currency,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) resolver() commands.Resolver {
	return commands.ResolverFunc(func(key string) (commands.Resource, error) {
		return a.ws.Entry(key)
	})
}

// report prints the current feedback message, if any.
func (a *app) report() {
	if msg, ok := a.feedback.Current(); ok {
		a.printer.feedback(msg)
	}
}

func (a *app) Close() {
	if a != nil && a.ws != nil {
		a.ws.Close()
	}
}

func defaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("backofficectl: locate config dir: %w", err)
	}
	return filepath.Join(dir, "backofficectl", "session.yaml"), nil
}
