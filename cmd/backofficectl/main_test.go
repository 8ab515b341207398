package main

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/components/backoffice/commands"
	"github.com/goliatone/go-backoffice/pkg/admin"
)

func newTestApp(t *testing.T, output string) (*app, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	t.Setenv("BACKOFFICE_API_URL", "memory://demo")
	t.Setenv("BACKOFFICE_SESSION_FILE", filepath.Join(t.TempDir(), "session.yaml"))
	t.Setenv("BACKOFFICE_FEEDBACK_TTL", "1h")
	t.Setenv("BACKOFFICE_LOG_LEVEL", "error")

	out := &bytes.Buffer{}
	a, err := newApp(&Globals{Demo: true, Yes: true, Output: output}, strings.NewReader(""), out)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, out
}

func TestParsePairsKeepsOrder(t *testing.T) {
	pairs, err := parsePairs([]string{"discount_type=fixed", "discount_value=500", "notes=a=b"})
	require.NoError(t, err)
	assert.Equal(t, []commands.FieldValue{
		{Name: "discount_type", Value: "fixed"},
		{Name: "discount_value", Value: "500"},
		{Name: "notes", Value: "a=b"},
	}, pairs)

	_, err = parsePairs([]string{"missing"})
	assert.Error(t, err)
	_, err = parsePairs([]string{"=value"})
	assert.Error(t, err)
}

func TestPrinterTableAlignsAndHandlesEmpty(t *testing.T) {
	color.NoColor = true
	out := &bytes.Buffer{}
	p := newPrinter(out, "table")

	require.NoError(t, p.table(admin.Table{
		Columns: []string{"ID", "CODE", "STATUS"},
		Rows:    [][]string{{"1", "WELCOME10", "active"}, {"22", "X", "expired"}},
		Status:  []string{"active", "expired"},
	}, nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID  CODE       STATUS", lines[0])
	assert.Equal(t, "1   WELCOME10  active", lines[1])

	out.Reset()
	require.NoError(t, p.table(admin.Table{Columns: []string{"ID"}}, nil))
	assert.Equal(t, "No records.\n", out.String())
}

func TestPrinterStructuredFormats(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, newPrinter(out, "json").value(map[string]int{"unread": 3}))
	assert.JSONEq(t, `{"unread":3}`, out.String())

	out.Reset()
	require.NoError(t, newPrinter(out, "yaml").table(admin.Table{}, []any{map[string]string{"code": "A"}}))
	assert.Equal(t, "- code: A\n", out.String())
}

func TestPromptConfirmer(t *testing.T) {
	prompt := backoffice.Prompt{Title: "Delete coupon", Message: "Are you sure?"}
	ctx := context.Background()

	out := &bytes.Buffer{}
	yes := &promptConfirmer{in: bufio.NewReader(strings.NewReader("")), out: out, yes: true}
	ok, err := yes.Confirm(ctx, prompt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out.String())

	scripted := &promptConfirmer{in: bufio.NewReader(strings.NewReader("Y\n")), out: out}
	ok, err = scripted.Confirm(ctx, prompt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Are you sure? [y/N]")

	declined := &promptConfirmer{in: bufio.NewReader(strings.NewReader("\n")), out: out}
	ok, err = declined.Confirm(ctx, prompt)
	require.NoError(t, err)
	assert.False(t, ok)

	eof := &promptConfirmer{in: bufio.NewReader(strings.NewReader("")), out: out}
	ok, err = eof.Confirm(ctx, prompt)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPromptConfirmerTimesOut(t *testing.T) {
	blocked, _ := newBlockingReader()
	p := &promptConfirmer{in: bufio.NewReader(blocked), out: &bytes.Buffer{}, timeout: 10 * time.Millisecond}
	ok, err := p.Confirm(context.Background(), backoffice.Prompt{Title: "Send campaign"})
	require.NoError(t, err)
	assert.False(t, ok)
}

type blockingReader struct{ release chan struct{} }

func newBlockingReader() (*blockingReader, func()) {
	r := &blockingReader{release: make(chan struct{})}
	return r, func() { close(r.release) }
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.release
	return 0, context.Canceled
}

func TestDemoListCreateDelete(t *testing.T) {
	a, out := newTestApp(t, "table")
	ctx := context.Background()

	require.NoError(t, (&listCmd{Resource: "coupons"}).Run(ctx, a))
	assert.Contains(t, out.String(), "CODE")
	assert.Contains(t, out.String(), "WELCOME10")

	out.Reset()
	require.NoError(t, (&createCmd{Resource: "coupons", Set: []string{
		"code=save20",
		"discount_value=20",
		"valid_from=2025-01-01T00:00",
		"valid_until=2025-01-31T23:59",
	}}).Run(ctx, a))
	assert.Contains(t, out.String(), "Coupon created successfully")

	out.Reset()
	require.NoError(t, (&deleteCmd{Resource: "coupons", ID: "4"}).Run(ctx, a))
	assert.Contains(t, out.String(), "deleted")
}

func TestDemoCreatePrintsInlineErrors(t *testing.T) {
	a, out := newTestApp(t, "table")

	err := (&createCmd{Resource: "coupons", Set: []string{"discount_value=20"}}).Run(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, out.String(), "code: is required")
}

func TestDemoUnknownResource(t *testing.T) {
	a, _ := newTestApp(t, "table")
	err := (&listCmd{Resource: "invoices"}).Run(context.Background(), a)
	assert.Error(t, err)
}

func TestDemoOverviewAsJSON(t *testing.T) {
	a, out := newTestApp(t, "json")
	require.NoError(t, (&overviewCmd{}).Run(context.Background(), a))
	assert.Contains(t, out.String(), `"coupons": 3`)
	assert.Contains(t, out.String(), `"unread_notifications": 3`)
}

func TestDemoStatsWritesChart(t *testing.T) {
	a, out := newTestApp(t, "table")
	chart := filepath.Join(t.TempDir(), "staff.html")
	require.NoError(t, (&statsCmd{Chart: chart}).Run(context.Background(), a))
	assert.Contains(t, out.String(), "Total staff")
	assert.FileExists(t, chart)
}

func TestDemoNotificationsOnce(t *testing.T) {
	a, out := newTestApp(t, "table")
	require.NoError(t, (&notificationsCmd{}).Run(context.Background(), a))
	assert.Equal(t, "3 unread\n", out.String())
}

func TestDemoOrganizationMembers(t *testing.T) {
	a, out := newTestApp(t, "table")
	require.NoError(t, (&orgMembersCmd{ID: "org-acme"}).Run(context.Background(), a))
	assert.Contains(t, out.String(), "EMAIL")

	out.Reset()
	err := (&orgDetailCmd{ID: "org-missing"}).Run(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, out.String(), "Organization not found.")
}

func TestLoginRequiresAPI(t *testing.T) {
	a, _ := newTestApp(t, "table")
	err := (&loginCmd{Token: "tok"}).Run(context.Background(), a)
	assert.Error(t, err)
	require.NoError(t, (&logoutCmd{}).Run(context.Background(), a))
}

func TestDemoApproveUpgradeInFreshProcess(t *testing.T) {
	a, out := newTestApp(t, "table")
	ctx := context.Background()

	require.NoError(t, (&actionCmd{
		Resource: "upgrades",
		ID:       "1",
		Name:     "approve",
		Payload:  []string{"payment_reference=PAY-9", "admin_notes=paid by NEFT"},
	}).Run(ctx, a))
	assert.Contains(t, out.String(), "Upgrade request approved")

	out.Reset()
	err := (&actionCmd{Resource: "upgrades", ID: "1", Name: "reject"}).Run(ctx, a)
	require.ErrorIs(t, err, admin.ErrInvalidTransition)
}

func TestDemoFieldsListsDefaultsAndActions(t *testing.T) {
	a, out := newTestApp(t, "table")
	require.NoError(t, (&fieldsCmd{Resource: "coupons"}).Run(context.Background(), a))
	assert.Contains(t, out.String(), "discount_type")
	assert.Contains(t, out.String(), "deactivate")

	a, out = newTestApp(t, "json")
	require.NoError(t, (&fieldsCmd{Resource: "coupons"}).Run(context.Background(), a))
	assert.Contains(t, out.String(), `"name": "discount_type"`)
}
