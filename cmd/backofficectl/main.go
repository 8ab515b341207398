package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type cli struct {
	Globals `embed:""`

	List          listCmd          `cmd:"" help:"List records of a resource."`
	Create        createCmd        `cmd:"" help:"Create a record from --set fields."`
	Update        updateCmd        `cmd:"" help:"Update a record from --set fields."`
	Delete        deleteCmd        `cmd:"" help:"Delete a record after confirmation."`
	Action        actionCmd        `cmd:"" help:"Run a custom action (deactivate, send, approve, ...)."`
	Fields        fieldsCmd        `cmd:"" help:"Show the form fields of a resource."`
	Overview      overviewCmd      `cmd:"" help:"Show the landing page summary."`
	Stats         statsCmd         `cmd:"" help:"Show staff statistics."`
	Org           orgCmd           `cmd:"" help:"Organization detail views."`
	Notifications notificationsCmd `cmd:"" help:"Show or watch the unread notification count."`
	Login         loginCmd         `cmd:"" help:"Store an API token for later commands."`
	Logout        logoutCmd        `cmd:"" help:"Forget the stored API token."`
}

// Globals are flags shared by every command.
type Globals struct {
	EnvFile []string `name:"env-file" default:".env" help:"Dotenv files to read before the environment."`
	Demo    bool     `help:"Use an in-memory demo backend instead of the API."`
	Yes     bool     `short:"y" help:"Answer yes to every confirmation."`
	Output  string   `short:"o" enum:"table,yaml,json" default:"table" help:"Output format (table, yaml, json)."`
	NoColor bool     `name:"no-color" help:"Disable colored output."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var root cli
	kctx := kong.Parse(&root,
		kong.Name("backofficectl"),
		kong.Description("Super-admin back office for the billing platform."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	a, err := newApp(&root.Globals, os.Stdin, os.Stdout)
	kctx.FatalIfErrorf(err)
	err = kctx.Run(a)
	a.Close()
	kctx.FatalIfErrorf(err)
}
