package admin

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/api"
)

type seenRequest struct {
	method string
	path   string
	query  string
	body   string
}

func newHTTPBackend(t *testing.T, routes map[string]string) (*HTTPBackend, <-chan seenRequest) {
	t.Helper()
	seen := make(chan seenRequest, 16)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen <- seenRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: string(body)}
		reply, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not found."}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(server.Close)
	logger := zerolog.Nop()
	client, err := api.NewClient(api.Config{BaseURL: server.URL + "/api/admin", Credentials: api.StaticToken("tok"), Logger: &logger})
	require.NoError(t, err)
	return NewHTTPBackend(client), seen
}

func TestHTTPBackendOrganizationVerbs(t *testing.T) {
	backend, seen := newHTTPBackend(t, map[string]string{
		"PATCH /api/admin/organizations/org-1/":       `{"id":"org-1","name":"Renamed"}`,
		"DELETE /api/admin/organizations/org-1/":      ``,
		"GET /api/admin/organizations/org-1/":         `{"id":"org-1","name":"Renamed","invoice_count":7}`,
		"GET /api/admin/organizations/org-1/members/": `{"results":[{"id":1,"email":"a@b.test","role":"owner"}]}`,
	})
	ctx := context.Background()

	org, err := backend.Organizations().Update(ctx, "org-1", backoffice.Payload{"name": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", org.Name)
	req := <-seen
	assert.Equal(t, http.MethodPatch, req.method)
	assert.JSONEq(t, `{"name":"Renamed"}`, req.body)

	require.NoError(t, backend.Organizations().Delete(ctx, "org-1"))
	req = <-seen
	assert.Equal(t, http.MethodDelete, req.method)
	assert.Equal(t, "cascade=true", req.query)

	detail, err := backend.OrganizationDetail(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 7, detail.InvoiceCount)
	assert.Equal(t, "Renamed", detail.Name)
	<-seen

	members, err := backend.OrganizationMembers(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "owner", members[0].Role)
	<-seen

	_, err = backend.Organizations().Create(ctx, backoffice.Payload{"name": "x"})
	require.ErrorIs(t, err, backoffice.ErrUnsupported)
}

func TestHTTPBackendReadViews(t *testing.T) {
	backend, _ := newHTTPBackend(t, map[string]string{
		"GET /api/admin/staff/stats/":                `{"total_staff":4,"by_type":{"sales":2}}`,
		"GET /api/admin/notifications/unread-count/": `{"unread_count":5}`,
		"GET /api/admin/payment-settings/":           `{"id":1,"gateway":"razorpay","mode":"test"}`,
	})
	ctx := context.Background()

	stats, err := backend.StaffStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalStaff)
	assert.Equal(t, 2, stats.ByType["sales"])

	unread, err := backend.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, unread)

	settings, err := backend.PaymentSettings().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "razorpay", settings[0].Gateway)
}

func TestHTTPBackendReadOnlyResources(t *testing.T) {
	backend, _ := newHTTPBackend(t, nil)
	ctx := context.Background()

	_, err := backend.Reviews().Create(ctx, backoffice.Payload{})
	require.ErrorIs(t, err, backoffice.ErrUnsupported)
	require.ErrorIs(t, backend.Upgrades().Delete(ctx, 1), backoffice.ErrUnsupported)
	_, err = backend.Campaigns().Update(ctx, 1, backoffice.Payload{})
	require.ErrorIs(t, err, backoffice.ErrUnsupported)
	require.ErrorIs(t, backend.Campaigns().Delete(ctx, 1), backoffice.ErrUnsupported)
}

func TestWorkspaceOverHTTP(t *testing.T) {
	backend, seen := newHTTPBackend(t, map[string]string{
		"GET /api/admin/email/campaigns/":         `[{"id":3,"name":"Promo","status":"draft"}]`,
		"POST /api/admin/email/campaigns/3/send/": `{"sent_count":10,"failed_count":1}`,
	})
	feedback := backoffice.NewFeedback(backoffice.FeedbackOptions{TTL: backoffice.NoExpiry})
	ws, err := NewWorkspace(backend, Deps{Feedback: feedback, Confirmer: backoffice.AlwaysConfirm()})
	require.NoError(t, err)
	t.Cleanup(ws.Close)
	ctx := context.Background()

	require.NoError(t, ws.Campaigns.Load(ctx, nil))
	<-seen
	summary, err := ws.Campaigns.Send(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.SentCount)
	assert.Equal(t, 1, summary.FailedCount)
	req := <-seen
	assert.Equal(t, "/api/admin/email/campaigns/3/send/", req.path)
	assert.JSONEq(t, `{}`, req.body)

	msg, ok := feedback.Current()
	require.True(t, ok)
	assert.Equal(t, "Campaign sent: 10 delivered, 1 failed", msg.Text)
}
