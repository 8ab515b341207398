package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/api"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ws       *Workspace
	backend  *MemoryBackend
	feedback *backoffice.Feedback
	clock    *backoffice.MockClock
}

func newFixture(t *testing.T, mutate ...func(*Deps)) fixture {
	t.Helper()
	clock := backoffice.NewMockClock(testNow)
	backend := NewMemoryBackend(clock)
	feedback := backoffice.NewFeedback(backoffice.FeedbackOptions{TTL: backoffice.NoExpiry, Clock: clock})
	deps := Deps{Feedback: feedback, Confirmer: backoffice.AlwaysConfirm(), Clock: clock}
	for _, fn := range mutate {
		fn(&deps)
	}
	ws, err := NewWorkspace(backend, deps)
	require.NoError(t, err)
	t.Cleanup(ws.Close)
	return fixture{ws: ws, backend: backend, feedback: feedback, clock: clock}
}

func (f fixture) message(t *testing.T) backoffice.Message {
	t.Helper()
	msg, ok := f.feedback.Current()
	require.True(t, ok, "expected a feedback message")
	return msg
}

func TestCouponCreateEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coupons := f.ws.Coupons

	require.NoError(t, coupons.Load(ctx, nil))
	require.Len(t, coupons.Items(), 3)

	require.NoError(t, coupons.OpenCreate(nil))
	require.NoError(t, coupons.SetField("code", "save20"))
	require.NoError(t, coupons.SetField("discountValue", "20"))
	require.NoError(t, coupons.SetField("valid_from", "2025-01-01T00:00"))
	require.NoError(t, coupons.SetField("valid_until", "2025-01-31T23:59"))

	saved, err := coupons.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, saved.ID)

	payloads := f.backend.CouponStore.Payloads("create")
	require.Len(t, payloads, 1)
	assert.Equal(t, backoffice.Payload{
		"code":              "SAVE20",
		"discount_type":     "percentage",
		"discount_value":    20.0,
		"valid_from":        "2025-01-01T00:00:00Z",
		"valid_until":       "2025-01-31T23:59:00Z",
		"max_uses_per_user": 1,
		"is_active":         true,
	}, payloads[0])

	msg := f.message(t)
	assert.Equal(t, "Coupon created successfully", msg.Text)
	assert.Equal(t, backoffice.SeveritySuccess, msg.Severity)

	created, ok := coupons.Find(4)
	require.True(t, ok)
	assert.Equal(t, "SAVE20", created.Code)
	assert.Equal(t, "active", coupons.Status(created))
	assert.Equal(t, backoffice.ModeNone, coupons.State().Focus.Mode)
}

func TestCouponValidationStaysInline(t *testing.T) {
	f := newFixture(t)
	coupons := f.ws.Coupons
	require.NoError(t, coupons.OpenCreate(map[string]string{
		"code":           "BIG",
		"discount_value": "120",
		"valid_from":     "2025-02-01T00:00",
		"valid_until":    "2025-03-01T00:00",
	}))

	_, err := coupons.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, backoffice.IsValidation(err))
	_, errs := coupons.Entry().Draft()
	assert.Contains(t, errs, "discount_value")
	assert.Equal(t, 0, f.backend.CouponStore.Calls("create"))
	_, shown := f.feedback.Current()
	assert.False(t, shown)

	require.NoError(t, coupons.SetField("discount_value", "15"))
	require.NoError(t, coupons.SetField("valid_until", "2025-01-01T00:00"))
	_, err = coupons.Submit(context.Background())
	require.Error(t, err)
	_, errs = coupons.Entry().Draft()
	assert.Equal(t, map[string]string{"valid_until": "must be after valid_from"}, errs)
}

func TestCouponDiscountKindClearsValue(t *testing.T) {
	f := newFixture(t)
	entry := f.ws.Coupons.Entry()
	require.NoError(t, entry.OpenCreate(map[string]string{"discount_value": "25"}))
	require.NoError(t, entry.SetField("discount_type", backoffice.DiscountFixed))
	values, _ := entry.Draft()
	assert.Equal(t, "", values["discount_value"])
	assert.Equal(t, backoffice.DiscountFixed, values["discount_type"])
}

func TestCouponDeactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ws.Coupons.Load(ctx, nil))

	require.NoError(t, f.ws.Coupons.Deactivate(ctx, 1))
	coupon, ok := f.ws.Coupons.Find(1)
	require.True(t, ok)
	assert.False(t, coupon.IsActive)
	assert.Equal(t, "inactive", f.ws.Coupons.Status(coupon))
	assert.Equal(t, "Coupon deactivated successfully", f.message(t).Text)
}

func TestCouponTableUsesDerivedViews(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ws.Coupons.Load(context.Background(), nil))
	table := f.ws.Coupons.Entry().Table()
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"active", "upcoming", "expired"}, table.Status)
	assert.Equal(t, "10% OFF", table.Rows[0][2])
	assert.Equal(t, "₹500 OFF", table.Rows[1][2])
	assert.Equal(t, "+7 days", table.Rows[2][2])
	assert.Equal(t, "42", table.Rows[0][5])
	assert.Equal(t, "0/100", table.Rows[1][5])
}

func TestPlansAreSorted(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ws.Plans.Load(context.Background(), nil))
	var ids []int
	for _, p := range f.ws.Plans.Items() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestCampaignSendFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaigns := f.ws.Campaigns
	require.NoError(t, campaigns.Load(ctx, nil))
	f.backend.CampaignStore.Fail("send", &api.APIError{Method: "POST", Path: "/email/campaigns/2/send/", Status: 400, Message: "SMTP not configured"})

	require.NoError(t, campaigns.OpenCreate(map[string]string{"name": "Spring promo", "subject": "20% off", "template": "1"}))
	saved, _, err := campaigns.CreateAndSend(ctx)
	require.Error(t, err)
	assert.Equal(t, 2, saved.ID)

	msg := f.message(t)
	assert.Equal(t, "SMTP not configured", msg.Text)
	assert.Equal(t, backoffice.SeverityError, msg.Severity)

	stored, ok := campaigns.Find(saved.ID)
	require.True(t, ok)
	assert.NotEqual(t, billing.CampaignSending, stored.Status)
	assert.Equal(t, billing.CampaignDraft, stored.Status)
}

func TestCampaignCreateAndSend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	campaigns := f.ws.Campaigns
	require.NoError(t, campaigns.OpenCreate(map[string]string{"name": "Renewals", "subject": "Renew now", "template": "1", "audience": "expired"}))

	saved, summary, err := campaigns.CreateAndSend(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.SentCount)
	assert.Equal(t, "Campaign sent: 3 delivered, 0 failed", f.message(t).Text)

	stored, ok := campaigns.Find(saved.ID)
	require.True(t, ok)
	assert.Equal(t, billing.CampaignCompleted, stored.Status)
	assert.Equal(t, billing.AudienceExpired, stored.Audience)
}

func TestCampaignSendDeclined(t *testing.T) {
	f := newFixture(t, func(d *Deps) { d.Confirmer = backoffice.NeverConfirm() })
	_, err := f.ws.Campaigns.Send(context.Background(), 1)
	require.ErrorIs(t, err, backoffice.ErrDeclined)
	assert.Equal(t, 0, f.backend.CampaignStore.Calls("send"))
}

func TestStaffTypeFilterAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ws.Staff.LoadType(ctx, billing.StaffSales))
	require.Len(t, f.ws.Staff.Items(), 1)
	assert.Equal(t, "Vikram Shah", f.ws.Staff.Items()[0].FullName())

	require.NoError(t, f.ws.Staff.LoadType(ctx, ""))
	assert.Len(t, f.ws.Staff.Items(), 3)

	stats, err := f.ws.Staff.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalStaff)
	assert.Equal(t, 2, stats.ActiveStaff)
	assert.Equal(t, 1, stats.ByType[billing.StaffSales])
	assert.Equal(t, 1, stats.TotalReferrals)
}

func TestStaffTypeResetsPermissions(t *testing.T) {
	f := newFixture(t)
	entry := f.ws.Staff.Entry()
	require.NoError(t, entry.OpenCreate(nil))
	require.NoError(t, entry.SetField("staff_type", billing.StaffSales))
	values, _ := entry.Draft()
	assert.Equal(t, "10", values["commission_rate"])
	assert.Equal(t, "true", values["can_view_revenue"])
	assert.Equal(t, "false", values["can_manage_organizations"])

	require.NoError(t, entry.SetField("staff_type", billing.StaffSupport))
	values, _ = entry.Draft()
	assert.Equal(t, "", values["commission_rate"])
	assert.Equal(t, "false", values["can_view_revenue"])
}

func TestReviewModeration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reviews := f.ws.Reviews
	require.NoError(t, reviews.LoadStatus(ctx, billing.StatusPending))
	require.Len(t, reviews.Items(), 1)

	require.NoError(t, reviews.ToggleFeatured(ctx, 1))
	assert.Equal(t, "Review featured", f.message(t).Text)

	require.NoError(t, reviews.Approve(ctx, 1))
	assert.Equal(t, "Review approved", f.message(t).Text)
	assert.Empty(t, reviews.Items(), "pending filter is kept across the reload")

	require.NoError(t, reviews.LoadStatus(ctx, ""))
	assert.Len(t, reviews.Items(), 2)

	err := reviews.Entry().OpenCreate(nil)
	require.ErrorIs(t, err, backoffice.ErrUnsupported)
}

func TestUpgradeOnlyPendingTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	upgrades := f.ws.Upgrades

	err := upgrades.Approve(ctx, 99, "", "")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, upgrades.Load(ctx, nil))
	err = upgrades.Reject(ctx, 2, "too late")
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = upgrades.Entry().DoID(ctx, "2", "approve", nil)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 0, f.backend.UpgradeStore.Calls("approve"))
	assert.Equal(t, 0, f.backend.UpgradeStore.Calls("reject"))

	f.clock.Add(time.Hour)
	require.NoError(t, upgrades.Approve(ctx, 1, "paid by NEFT", "PAY-1"))
	assert.Equal(t, "Upgrade request approved", f.message(t).Text)

	req, ok := upgrades.Find(1)
	require.True(t, ok)
	assert.Equal(t, billing.StatusApproved, req.Status)
	assert.Equal(t, "PAY-1", req.PaymentReference)
	assert.Equal(t, "paid by NEFT", req.AdminNotes)
	require.NotNil(t, req.ProcessedAt)
	assert.True(t, req.ProcessedAt.Equal(testNow.Add(time.Hour)))

	err = upgrades.Approve(ctx, 1, "", "")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCouponEditClearsOptionalField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entry, err := f.ws.Entry("coupons")
	require.NoError(t, err)

	require.NoError(t, entry.OpenEditID(ctx, "2"))
	values, _ := entry.Draft()
	require.Equal(t, "100", values["max_uses"])

	require.NoError(t, entry.SetField("max_uses", ""))
	_, err = entry.SubmitDraft(ctx)
	require.NoError(t, err)

	payloads := f.backend.CouponStore.Payloads("update")
	require.Len(t, payloads, 1)
	value, present := payloads[0]["max_uses"]
	assert.True(t, present)
	assert.Nil(t, value)

	stored, ok := f.ws.Coupons.Find(2)
	require.True(t, ok)
	assert.Equal(t, 0, stored.MaxUses)
	assert.Equal(t, "Coupon updated successfully", f.message(t).Text)
}

func TestUpgradeEntryLoadsBeforeTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.ws.Entry("upgrades")
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Count())

	_, err = entry.DoID(ctx, "1", "approve", backoffice.Payload{"payment_reference": "PAY-9"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.backend.UpgradeStore.Calls("approve"))
	assert.Equal(t, "Upgrade request approved", f.message(t).Text)

	req, ok := f.ws.Upgrades.Find(1)
	require.True(t, ok)
	assert.Equal(t, billing.StatusApproved, req.Status)
	assert.Equal(t, "PAY-9", req.PaymentReference)

	_, err = entry.DoID(ctx, "42", "reject", nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, f.backend.UpgradeStore.Calls("reject"))
}

func TestOrganizationDeleteUsesCascadePrompt(t *testing.T) {
	var prompts []backoffice.Prompt
	f := newFixture(t, func(d *Deps) {
		d.Confirmer = backoffice.ConfirmFunc(func(_ context.Context, p backoffice.Prompt) (bool, error) {
			prompts = append(prompts, p)
			return true, nil
		})
	})
	ctx := context.Background()
	orgs := f.ws.Organizations
	require.NoError(t, orgs.Load(ctx, nil))

	require.NoError(t, orgs.Entry().RemoveID(ctx, "org-lotus"))
	require.Len(t, prompts, 1)
	assert.Equal(t, "delete", prompts[0].Action)
	assert.Equal(t, "org-lotus", prompts[0].ItemID)
	assert.Contains(t, prompts[0].Message, "cannot be undone")
	assert.Len(t, orgs.Items(), 1)
	assert.Equal(t, "Organization deleted successfully", f.message(t).Text)
}

func TestOrganizationSearchDetailAndMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgs := f.ws.Organizations

	require.NoError(t, orgs.Search(ctx, "lotus"))
	require.Len(t, orgs.Items(), 1)
	assert.Equal(t, "org-lotus", orgs.Items()[0].ID)

	detail, err := orgs.Detail(ctx, "org-acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", detail.Name)
	assert.Equal(t, 24, detail.InvoiceCount)

	members, err := orgs.Members(ctx, "org-acme")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = orgs.Detail(ctx, "org-missing")
	require.Error(t, err)
	assert.Equal(t, "Organization not found.", f.message(t).Text)

	err = orgs.Entry().OpenCreate(nil)
	require.ErrorIs(t, err, backoffice.ErrUnsupported)
}

func TestOrganizationAttributionRequired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entry := f.ws.Organizations.Entry()
	require.NoError(t, entry.OpenEditID(ctx, "org-acme"))
	require.NoError(t, entry.SetField("acquisition_source", billing.SourcePartner))

	values, _ := entry.Draft()
	assert.Equal(t, "", values["sales_rep"])

	_, err := entry.SubmitDraft(ctx)
	require.Error(t, err)
	_, errs := entry.Draft()
	assert.Contains(t, errs, "partner_name")

	require.NoError(t, entry.SetField("partner_name", "Tally Partners"))
	_, err = entry.SubmitDraft(ctx)
	require.NoError(t, err)
	updated := f.backend.OrganizationStore.Snapshot()[0]
	assert.Equal(t, billing.SourcePartner, updated.AcquisitionSource)
	assert.Equal(t, "Tally Partners", updated.PartnerName)
	assert.Equal(t, "", updated.SalesRep)
}

func TestPaymentSettingsEditBlanksSecrets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	settings := f.ws.PaymentSettings

	require.NoError(t, settings.Edit(ctx))
	values, _ := settings.Entry().Draft()
	assert.Equal(t, "", values["secret_key"])
	assert.Equal(t, "rzp_test_demo", values["public_key"])

	require.NoError(t, settings.SetField("public_key", "rzp_test_rotated"))
	saved, err := settings.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rzp_test_rotated", saved.PublicKey)

	payloads := f.backend.SettingsStore.Payloads("update")
	require.Len(t, payloads, 1)
	assert.NotContains(t, payloads[0], "secret_key")
	assert.Equal(t, "Payment settings updated successfully", f.message(t).Text)

	require.NoError(t, settings.Entry().OpenEditID(ctx, "1"))
	values, _ = settings.Entry().Draft()
	assert.Equal(t, "", values["webhook_secret"])
	assert.Equal(t, "", values["secret_key"])
}

func TestPaymentSettingsModeSwitchClearsSecrets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	settings := f.ws.PaymentSettings
	require.NoError(t, settings.Edit(ctx))
	require.NoError(t, settings.SetField("secret_key", "sk_test_new"))
	require.NoError(t, settings.SetField("mode", billing.ModeLive))
	values, _ := settings.Entry().Draft()
	assert.Equal(t, "", values["secret_key"])
}

func TestWorkspaceOverview(t *testing.T) {
	f := newFixture(t)
	overview, err := f.ws.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Overview{
		Coupons:         3,
		ActiveCoupons:   1,
		Organizations:   2,
		Staff:           3,
		PendingReviews:  1,
		PendingUpgrades: 1,
		Unread:          3,
	}, overview)

	f.backend.OrganizationStore.Fail("list", errors.New("connection reset"))
	_, err = f.ws.Overview(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to load overview", f.message(t).Text)
}

func TestWorkspaceEntries(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{
		"campaigns", "coupons", "organizations", "payments", "plans",
		"reviews", "staff", "templates", "upgrades",
	}, f.ws.Keys())

	entry, err := f.ws.Entry("coupons")
	require.NoError(t, err)
	assert.Equal(t, "coupon", entry.Name())
	assert.True(t, entry.Writable())

	_, err = f.ws.Entry("invoices")
	require.Error(t, err)
}

func TestEntryEditUnknownID(t *testing.T) {
	f := newFixture(t)
	err := f.ws.Coupons.Entry().OpenEditID(context.Background(), "99")
	require.ErrorIs(t, err, ErrNotFound)

	err = f.ws.Coupons.Entry().OpenEditID(context.Background(), "abc")
	require.Error(t, err)
}
