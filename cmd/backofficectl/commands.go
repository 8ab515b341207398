package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/components/backoffice/commands"
	"github.com/goliatone/go-backoffice/components/backoffice/queries"
	"github.com/goliatone/go-backoffice/pkg/admin"
	"github.com/goliatone/go-backoffice/pkg/api"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// parsePairs splits key=value arguments, keeping their order.
func parsePairs(pairs []string) ([]commands.FieldValue, error) {
	out := make([]commands.FieldValue, 0, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		out = append(out, commands.FieldValue{Name: key, Value: value})
	}
	return out, nil
}

type listCmd struct {
	Resource string   `arg:"" help:"Resource key (coupons, plans, staff, ...)."`
	Filter   []string `short:"f" help:"Filter as key=value; repeatable."`
}

func (c *listCmd) Run(ctx context.Context, a *app) error {
	pairs, err := parsePairs(c.Filter)
	if err != nil {
		return err
	}
	filter := backoffice.Filter{}
	for _, p := range pairs {
		filter[p.Name] = p.Value
	}
	cmd := commands.NewLoadCommand(a.resolver(), a.telemetry)
	if err := cmd.Execute(ctx, commands.LoadInput{Resource: c.Resource, Filter: filter}); err != nil {
		a.report()
		return err
	}
	entry, err := a.ws.Entry(c.Resource)
	if err != nil {
		return err
	}
	return a.printer.table(entry.Table(), entry.Records())
}

type createCmd struct {
	Resource string   `arg:"" help:"Resource key."`
	Set      []string `short:"s" help:"Field as key=value; repeatable, applied in order."`
}

func (c *createCmd) Run(ctx context.Context, a *app) error {
	return a.save(ctx, c.Resource, "", c.Set)
}

type updateCmd struct {
	Resource string   `arg:"" help:"Resource key."`
	ID       string   `arg:"" help:"Record id."`
	Set      []string `short:"s" help:"Field as key=value; repeatable, applied in order."`
}

func (c *updateCmd) Run(ctx context.Context, a *app) error {
	return a.save(ctx, c.Resource, c.ID, c.Set)
}

func (a *app) save(ctx context.Context, resource, id string, set []string) error {
	fields, err := parsePairs(set)
	if err != nil {
		return err
	}
	var saved any
	cmd := commands.NewSaveCommand(a.resolver(), a.telemetry, func(record any) { saved = record })
	err = cmd.Execute(ctx, commands.SaveInput{Resource: resource, ID: id, Fields: fields})
	a.report()
	if err != nil {
		var verr *backoffice.ValidationError
		if errors.As(err, &verr) {
			a.printer.fieldErrors(verr.Fields)
		}
		return err
	}
	if a.globals.Output == "table" {
		return nil
	}
	return a.printer.value(saved)
}

type deleteCmd struct {
	Resource string `arg:"" help:"Resource key."`
	ID       string `arg:"" help:"Record id."`
}

func (c *deleteCmd) Run(ctx context.Context, a *app) error {
	cmd := commands.NewRemoveCommand(a.resolver(), a.telemetry)
	err := cmd.Execute(ctx, commands.RemoveInput{Resource: c.Resource, ID: c.ID})
	a.report()
	if errors.Is(err, backoffice.ErrDeclined) {
		return nil
	}
	return err
}

type actionCmd struct {
	Resource string   `arg:"" help:"Resource key."`
	ID       string   `arg:"" help:"Record id."`
	Name     string   `arg:"" help:"Action name."`
	Payload  []string `short:"p" help:"Payload entry as key=value; repeatable."`
}

func (c *actionCmd) Run(ctx context.Context, a *app) error {
	pairs, err := parsePairs(c.Payload)
	if err != nil {
		return err
	}
	payload := backoffice.Payload{}
	for _, p := range pairs {
		payload[p.Name] = p.Value
	}
	var result backoffice.ActionResult
	cmd := commands.NewActionCommand(a.resolver(), a.telemetry, func(r backoffice.ActionResult) { result = r })
	err = cmd.Execute(ctx, commands.ActionInput{Resource: c.Resource, ID: c.ID, Action: c.Name, Payload: payload})
	a.report()
	if errors.Is(err, backoffice.ErrDeclined) {
		return nil
	}
	if err != nil || a.globals.Output == "table" {
		return err
	}
	return a.printer.value(result)
}

type fieldsCmd struct {
	Resource string `arg:"" help:"Resource key."`
}

type fieldView struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

func (c *fieldsCmd) Run(ctx context.Context, a *app) error {
	entry, err := a.ws.Entry(c.Resource)
	if err != nil {
		return err
	}
	actions := entry.Actions()
	if entry.Writable() {
		if err := entry.OpenCreate(nil); err != nil {
			return err
		}
		values, _ := entry.Draft()
		_ = entry.Cancel()
		rows := make([][]string, 0, len(values))
		for _, key := range sortedKeys(values) {
			rows = append(rows, []string{key, values[key]})
		}
		if err := a.printer.table(admin.Table{Columns: []string{"FIELD", "DEFAULT"}, Rows: rows}, toFieldViews(values)); err != nil {
			return err
		}
	}
	if len(actions) == 0 || a.globals.Output != "table" {
		return nil
	}
	fmt.Fprintln(a.printer.out)
	rows := make([][]string, 0, len(actions))
	for _, spec := range actions {
		rows = append(rows, []string{spec.Name, spec.Label, yes(spec.Confirm)})
	}
	return a.printer.table(admin.Table{Columns: []string{"ACTION", "LABEL", "CONFIRM"}, Rows: rows}, nil)
}

func toFieldViews(values map[string]string) []any {
	out := make([]any, 0, len(values))
	for _, key := range sortedKeys(values) {
		out = append(out, fieldView{Name: key, Value: values[key]})
	}
	return out
}

func yes(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

type overviewCmd struct{}

func (c *overviewCmd) Run(ctx context.Context, a *app) error {
	query := queries.NewLookupQuery(func(ctx context.Context, _ struct{}) (admin.Overview, error) {
		return a.ws.Overview(ctx)
	})
	overview, err := query.Query(ctx, struct{}{})
	if err != nil {
		a.report()
		return err
	}
	if a.globals.Output != "table" {
		return a.printer.value(overview)
	}
	return a.printer.table(admin.Table{
		Columns: []string{"METRIC", "COUNT"},
		Rows: [][]string{
			{"Coupons", itoa(overview.Coupons)},
			{"Active coupons", itoa(overview.ActiveCoupons)},
			{"Organizations", itoa(overview.Organizations)},
			{"Staff", itoa(overview.Staff)},
			{"Pending reviews", itoa(overview.PendingReviews)},
			{"Pending upgrades", itoa(overview.PendingUpgrades)},
			{"Unread notifications", itoa(overview.Unread)},
		},
	}, nil)
}

type statsCmd struct {
	Chart string `help:"Write an HTML chart page to this file."`
}

func (c *statsCmd) Run(ctx context.Context, a *app) error {
	query := queries.NewLookupQuery(func(ctx context.Context, _ struct{}) (billing.StaffStats, error) {
		return a.ws.Staff.Stats(ctx)
	})
	stats, err := query.Query(ctx, struct{}{})
	if err != nil {
		a.report()
		return err
	}
	if c.Chart != "" {
		if err := a.writeStaffChart(ctx, c.Chart, stats); err != nil {
			return err
		}
	}
	if a.globals.Output != "table" {
		return a.printer.value(stats)
	}
	rows := [][]string{
		{"Total staff", itoa(stats.TotalStaff)},
		{"Active staff", itoa(stats.ActiveStaff)},
		{"Referrals", itoa(stats.TotalReferrals)},
		{"Commission", fmt.Sprintf("%s%.2f", a.cfg.Currency, stats.TotalCommission)},
	}
	for _, key := range sortedKeys(stats.ByType) {
		rows = append(rows, []string{"Type " + key, itoa(stats.ByType[key])})
	}
	return a.printer.table(admin.Table{Columns: []string{"METRIC", "VALUE"}, Rows: rows}, nil)
}

func (a *app) writeStaffChart(ctx context.Context, path string, stats billing.StaffStats) error {
	if err := a.ws.Staff.LoadType(ctx, ""); err != nil {
		return err
	}
	html, err := a.renderer.StaffPage(stats, a.ws.Staff.Entry().Table().Status)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write chart file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "chart written to %s\n", path)
	return nil
}

type orgCmd struct {
	Detail  orgDetailCmd  `cmd:"" help:"Show an organization with its counts."`
	Members orgMembersCmd `cmd:"" help:"List the members of an organization."`
}

type orgDetailCmd struct {
	ID string `arg:"" help:"Organization id."`
}

func (c *orgDetailCmd) Run(ctx context.Context, a *app) error {
	query := queries.NewLookupQuery(a.ws.Organizations.Detail)
	detail, err := query.Query(ctx, c.ID)
	if err != nil {
		a.report()
		return err
	}
	return a.printer.value(detail)
}

type orgMembersCmd struct {
	ID string `arg:"" help:"Organization id."`
}

func (c *orgMembersCmd) Run(ctx context.Context, a *app) error {
	query := queries.NewLookupQuery(a.ws.Organizations.Members)
	members, err := query.Query(ctx, c.ID)
	if err != nil {
		a.report()
		return err
	}
	if a.globals.Output != "table" {
		return a.printer.value(members)
	}
	return a.printer.table(memberTable(members), nil)
}

func memberTable(members []billing.Member) admin.Table {
	t := admin.Table{Columns: []string{"ID", "EMAIL", "NAME", "ROLE", "STATUS"}}
	for _, m := range members {
		status := "inactive"
		if m.IsActive {
			status = "active"
		}
		t.Rows = append(t.Rows, []string{itoa(m.ID), m.Email, m.FullName, m.Role, status})
		t.Status = append(t.Status, status)
	}
	return t
}

type notificationsCmd struct {
	Watch bool `short:"w" help:"Keep polling and print every change until interrupted."`
}

func (c *notificationsCmd) Run(ctx context.Context, a *app) error {
	counter := a.ws.Backend()
	if !c.Watch {
		count, err := queries.NewUnreadCountQuery(counter).Query(ctx, queries.UnreadInput{})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.printer.out, "%d unread\n", count)
		return nil
	}
	poller := backoffice.NewNotificationPoller(counter, backoffice.PollerOptions{
		Interval: a.cfg.PollInterval,
		OnChange: func(count int) {
			fmt.Fprintf(a.printer.out, "%d unread\n", count)
		},
		Logger: &a.logger,
	})
	if err := poller.Start(ctx); err != nil {
		return err
	}
	defer poller.Stop()
	<-ctx.Done()
	return nil
}

type loginCmd struct {
	Token string `required:"" env:"BACKOFFICE_TOKEN" help:"API token issued to the super admin."`
	Email string `help:"Account email, kept for display."`
}

func (c *loginCmd) Run(ctx context.Context, a *app) error {
	if a.client == nil {
		return errors.New("login needs the API; drop --demo")
	}
	client, err := api.NewClient(api.Config{
		BaseURL:     a.client.BaseURL(),
		Credentials: api.StaticToken(c.Token),
		Timeout:     a.cfg.Timeout,
		Logger:      &a.logger,
	})
	if err != nil {
		return err
	}
	if _, err := client.UnreadCount(ctx); err != nil {
		return fmt.Errorf("verify token: %w", err)
	}
	session := api.Session{Token: c.Token, Email: c.Email}
	if err := api.SaveSession(a.sessionPath, session); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(a.printer.out, "Logged in; session stored in %s\n", a.sessionPath)
	return nil
}

type logoutCmd struct{}

func (c *logoutCmd) Run(_ context.Context, a *app) error {
	if err := api.ClearSession(a.sessionPath); err != nil {
		return err
	}
	fmt.Fprintln(a.printer.out, "Logged out.")
	return nil
}
