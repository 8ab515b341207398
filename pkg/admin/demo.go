package admin

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/api"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// MemoryBackend is a Backend held in memory, seeded with a small tenant
// catalogue. It backs the CLI demo mode and the screen tests; the per-entity
// stores are exposed so callers can inject failures.
type MemoryBackend struct {
	CouponStore       *api.MemoryBackend[billing.Coupon, int]
	PlanStore         *api.MemoryBackend[billing.SubscriptionPlan, int]
	StaffStore        *api.MemoryBackend[billing.StaffMember, int]
	TemplateStore     *api.MemoryBackend[billing.EmailTemplate, int]
	CampaignStore     *api.MemoryBackend[billing.EmailCampaign, int]
	ReviewStore       *api.MemoryBackend[billing.Review, int]
	UpgradeStore      *api.MemoryBackend[billing.UpgradeRequest, int]
	OrganizationStore *api.MemoryBackend[billing.Organization, string]
	SettingsStore     *api.MemoryBackend[billing.PaymentSettings, int]

	members map[string][]billing.Member
	unread  atomic.Int64
	clock   backoffice.Clock
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend seeds the demo catalogue relative to clock's now.
func NewMemoryBackend(clock backoffice.Clock) *MemoryBackend {
	if clock == nil {
		clock = backoffice.SystemClock()
	}
	now := clock.Now().UTC().Truncate(time.Minute)
	day := 24 * time.Hour
	b := &MemoryBackend{clock: clock}

	b.CouponStore = api.NewMemoryBackend(api.MemoryOptions[billing.Coupon, int]{
		NextID: api.SequentialIDs(3),
		Actions: map[string]api.MemoryAction[billing.Coupon]{
			"deactivate": func(c billing.Coupon, _ backoffice.Payload) (billing.Coupon, backoffice.ActionResult, error) {
				c.IsActive = false
				return c, backoffice.ActionResult{"message": "Coupon deactivated"}, nil
			},
		},
	},
		billing.Coupon{ID: 1, Code: "WELCOME10", DiscountType: backoffice.DiscountPercentage, DiscountValue: 10,
			ValidFrom: now.Add(-30 * day), ValidUntil: now.Add(60 * day), MaxUsesPerUser: 1, CurrentUsageCount: 42, IsActive: true},
		billing.Coupon{ID: 2, Code: "FESTIVE500", DiscountType: backoffice.DiscountFixed, DiscountValue: 500,
			ValidFrom: now.Add(10 * day), ValidUntil: now.Add(40 * day), MaxUses: 100, MaxUsesPerUser: 1, IsActive: true},
		billing.Coupon{ID: 3, Code: "TRIAL7", DiscountType: backoffice.DiscountExtendedPeriod, DiscountValue: 7,
			ValidFrom: now.Add(-90 * day), ValidUntil: now.Add(-1 * day), MaxUsesPerUser: 1, CurrentUsageCount: 9, IsActive: true},
	)

	b.PlanStore = api.NewMemoryBackend(api.MemoryOptions[billing.SubscriptionPlan, int]{NextID: api.SequentialIDs(3)},
		billing.SubscriptionPlan{ID: 3, Name: "Business", Slug: "business", Price: 2999, Currency: "INR", BillingCycle: billing.CycleMonthly,
			TrialDays: 14, MaxUsers: 25, MaxInvoices: 5000, Features: []string{"reports", "api"}, IsActive: true, SortOrder: 3},
		billing.SubscriptionPlan{ID: 1, Name: "Free", Slug: "free", Currency: "INR", BillingCycle: billing.CycleMonthly,
			MaxUsers: 1, MaxInvoices: 20, Features: []string{}, IsActive: true, SortOrder: 1},
		billing.SubscriptionPlan{ID: 2, Name: "Starter", Slug: "starter", Price: 499, Currency: "INR", BillingCycle: billing.CycleMonthly,
			TrialDays: 14, MaxUsers: 3, MaxInvoices: 500, Features: []string{"reports"}, IsActive: true, SortOrder: 2},
	)

	b.StaffStore = api.NewMemoryBackend(api.MemoryOptions[billing.StaffMember, int]{
		NextID: api.SequentialIDs(3),
		Match: func(m billing.StaffMember, f backoffice.Filter) bool {
			return f["type"] == "" || m.StaffType == f["type"]
		},
	},
		billing.StaffMember{ID: 1, Email: "asha@billing.test", FirstName: "Asha", LastName: "Rao", StaffType: billing.StaffAdmin, IsActive: true,
			CanManageCoupons: true, CanViewRevenue: true, CanManageOrganizations: true, DateJoined: now.Add(-400 * day)},
		billing.StaffMember{ID: 2, Email: "vikram@billing.test", FirstName: "Vikram", LastName: "Shah", StaffType: billing.StaffSales, IsActive: true,
			CanManageCoupons: true, CanViewRevenue: true, CommissionRate: 10, SalesTarget: 200000, DateJoined: now.Add(-120 * day)},
		billing.StaffMember{ID: 3, Email: "meera@billing.test", FirstName: "Meera", StaffType: billing.StaffSupport, IsActive: false,
			CanManageOrganizations: true, DateJoined: now.Add(-60 * day)},
	)

	b.TemplateStore = api.NewMemoryBackend(api.MemoryOptions[billing.EmailTemplate, int]{NextID: api.SequentialIDs(1)},
		billing.EmailTemplate{ID: 1, Name: "Monthly newsletter", Subject: "What's new this month", Body: "Hi {{name}}, ...",
			TemplateType: "marketing", Variables: []string{"name"}, IsActive: true},
	)

	b.CampaignStore = api.NewMemoryBackend(api.MemoryOptions[billing.EmailCampaign, int]{
		NextID: api.SequentialIDs(1),
		OnSave: func(c billing.EmailCampaign) billing.EmailCampaign {
			if c.Status == "" {
				c.Status = billing.CampaignDraft
			}
			if c.CreatedAt.IsZero() {
				c.CreatedAt = clock.Now().UTC()
			}
			return c
		},
		Actions: map[string]api.MemoryAction[billing.EmailCampaign]{
			"send": func(c billing.EmailCampaign, _ backoffice.Payload) (billing.EmailCampaign, backoffice.ActionResult, error) {
				if c.TotalRecipients == 0 {
					c.TotalRecipients = 3
				}
				c.Status = billing.CampaignCompleted
				c.SentCount = c.TotalRecipients
				return c, backoffice.ActionResult{"sent_count": c.SentCount, "failed_count": 0, "message": "Campaign sent"}, nil
			},
		},
	},
		billing.EmailCampaign{ID: 1, Name: "Launch week", Subject: "We are live", TemplateID: 1, Audience: billing.AudienceAll,
			Status: billing.CampaignCompleted, TotalRecipients: 120, SentCount: 118, FailedCount: 2, CreatedAt: now.Add(-20 * day)},
	)

	b.ReviewStore = api.NewMemoryBackend(api.MemoryOptions[billing.Review, int]{
		Match: statusMatch(func(r billing.Review) string { return r.Status }),
		Actions: map[string]api.MemoryAction[billing.Review]{
			"approve": func(r billing.Review, _ backoffice.Payload) (billing.Review, backoffice.ActionResult, error) {
				r.Status = billing.StatusApproved
				return r, backoffice.ActionResult{"status": r.Status}, nil
			},
			"reject": func(r billing.Review, _ backoffice.Payload) (billing.Review, backoffice.ActionResult, error) {
				r.Status = billing.StatusRejected
				r.IsFeatured = false
				return r, backoffice.ActionResult{"status": r.Status}, nil
			},
			"toggle-featured": func(r billing.Review, _ backoffice.Payload) (billing.Review, backoffice.ActionResult, error) {
				r.IsFeatured = !r.IsFeatured
				return r, backoffice.ActionResult{"is_featured": r.IsFeatured}, nil
			},
		},
	},
		billing.Review{ID: 1, OrganizationName: "Acme Traders", AuthorName: "Ravi", Rating: 5, Title: "Saves hours",
			Comment: "Invoicing is finally painless.", Status: billing.StatusPending, CreatedAt: now.Add(-2 * day)},
		billing.Review{ID: 2, OrganizationName: "Blue Lotus", AuthorName: "Nisha", Rating: 4, Title: "Solid",
			Comment: "Good value.", Status: billing.StatusApproved, IsFeatured: true, CreatedAt: now.Add(-9 * day)},
	)

	b.UpgradeStore = api.NewMemoryBackend(api.MemoryOptions[billing.UpgradeRequest, int]{
		Match: statusMatch(func(u billing.UpgradeRequest) string { return u.Status }),
		Actions: map[string]api.MemoryAction[billing.UpgradeRequest]{
			"approve": b.processUpgrade(billing.StatusApproved),
			"reject":  b.processUpgrade(billing.StatusRejected),
		},
	},
		billing.UpgradeRequest{ID: 1, OrganizationID: "org-acme", OrganizationName: "Acme Traders", CurrentPlan: "starter",
			RequestedPlan: "business", Status: billing.StatusPending, RequestedAt: now.Add(-1 * day)},
		billing.UpgradeRequest{ID: 2, OrganizationID: "org-lotus", OrganizationName: "Blue Lotus", CurrentPlan: "free",
			RequestedPlan: "starter", Status: billing.StatusApproved, RequestedAt: now.Add(-15 * day)},
	)

	b.OrganizationStore = api.NewMemoryBackend(api.MemoryOptions[billing.Organization, string]{
		NextID: api.RandomIDs(),
		Match: func(o billing.Organization, f backoffice.Filter) bool {
			q := strings.ToLower(f["search"])
			return q == "" || strings.Contains(strings.ToLower(o.Name), q) || strings.Contains(strings.ToLower(o.Email), q)
		},
	},
		billing.Organization{ID: "org-acme", Name: "Acme Traders", Email: "accounts@acme.test", Plan: "starter",
			SubscriptionStatus: billing.SubscriptionActive, AcquisitionSource: billing.SourceSalesRep, SalesRep: "Vikram Shah",
			IsActive: true, MemberCount: 2, CreatedAt: now.Add(-200 * day)},
		billing.Organization{ID: "org-lotus", Name: "Blue Lotus", Email: "hello@bluelotus.test", Plan: "free",
			SubscriptionStatus: billing.SubscriptionTrial, AcquisitionSource: billing.SourceReferral, ReferralCode: "ACME-REF",
			IsActive: true, MemberCount: 1, CreatedAt: now.Add(-10 * day)},
	)
	b.members = map[string][]billing.Member{
		"org-acme": {
			{ID: 11, Email: "ravi@acme.test", FullName: "Ravi Kumar", Role: "owner", IsActive: true, JoinedAt: now.Add(-200 * day)},
			{ID: 12, Email: "priya@acme.test", FullName: "Priya Nair", Role: "accountant", IsActive: true, JoinedAt: now.Add(-90 * day)},
		},
		"org-lotus": {
			{ID: 21, Email: "nisha@bluelotus.test", FullName: "Nisha Iyer", Role: "owner", IsActive: true, JoinedAt: now.Add(-10 * day)},
		},
	}

	b.SettingsStore = api.NewMemoryBackend(api.MemoryOptions[billing.PaymentSettings, int]{
		OnSave: func(p billing.PaymentSettings) billing.PaymentSettings {
			p.SecretKey = mask(p.SecretKey)
			p.WebhookSecret = mask(p.WebhookSecret)
			return p
		},
	},
		billing.PaymentSettings{ID: 1, Gateway: "razorpay", Mode: billing.ModeTest, Currency: "INR", PublicKey: "rzp_test_demo",
			SecretKey: "********", UPIID: "billing@upi", IsActive: true},
	)

	b.unread.Store(3)
	return b
}

func statusMatch[T any](status func(T) string) func(T, backoffice.Filter) bool {
	return func(item T, f backoffice.Filter) bool {
		return f["status"] == "" || status(item) == f["status"]
	}
}

func (b *MemoryBackend) processUpgrade(status string) api.MemoryAction[billing.UpgradeRequest] {
	return func(u billing.UpgradeRequest, payload backoffice.Payload) (billing.UpgradeRequest, backoffice.ActionResult, error) {
		processed := b.clock.Now().UTC()
		u.Status = status
		u.ProcessedAt = &processed
		if notes, ok := payload["admin_notes"].(string); ok {
			u.AdminNotes = notes
		}
		if ref, ok := payload["payment_reference"].(string); ok {
			u.PaymentReference = ref
		}
		return u, backoffice.ActionResult{"status": status}, nil
	}
}

func mask(secret string) string {
	if secret == "" || strings.Trim(secret, "*") == "" {
		return secret
	}
	return "********"
}

func (b *MemoryBackend) Coupons() backoffice.Remote[billing.Coupon, int] { return b.CouponStore }
func (b *MemoryBackend) Plans() backoffice.Remote[billing.SubscriptionPlan, int] {
	return b.PlanStore
}
func (b *MemoryBackend) Staff() backoffice.Remote[billing.StaffMember, int] { return b.StaffStore }
func (b *MemoryBackend) Templates() backoffice.Remote[billing.EmailTemplate, int] {
	return b.TemplateStore
}
func (b *MemoryBackend) Campaigns() backoffice.Remote[billing.EmailCampaign, int] {
	return b.CampaignStore
}
func (b *MemoryBackend) Reviews() backoffice.Remote[billing.Review, int] { return b.ReviewStore }
func (b *MemoryBackend) Upgrades() backoffice.Remote[billing.UpgradeRequest, int] {
	return b.UpgradeStore
}
func (b *MemoryBackend) Organizations() backoffice.Remote[billing.Organization, string] {
	return b.OrganizationStore
}
func (b *MemoryBackend) PaymentSettings() backoffice.Remote[billing.PaymentSettings, int] {
	return b.SettingsStore
}

// StaffStats summarizes the in-memory roster.
func (b *MemoryBackend) StaffStats(ctx context.Context) (billing.StaffStats, error) {
	if err := ctx.Err(); err != nil {
		return billing.StaffStats{}, err
	}
	stats := billing.StaffStats{ByType: map[string]int{}}
	for _, m := range b.StaffStore.Snapshot() {
		stats.TotalStaff++
		if m.IsActive {
			stats.ActiveStaff++
		}
		stats.ByType[m.StaffType]++
	}
	for _, o := range b.OrganizationStore.Snapshot() {
		if o.AcquisitionSource == billing.SourceReferral {
			stats.TotalReferrals++
		}
	}
	return stats, nil
}

func (b *MemoryBackend) OrganizationDetail(ctx context.Context, id string) (billing.OrganizationDetail, error) {
	if err := ctx.Err(); err != nil {
		return billing.OrganizationDetail{}, err
	}
	for _, o := range b.OrganizationStore.Snapshot() {
		if o.ID == id {
			return billing.OrganizationDetail{Organization: o, InvoiceCount: 12 * o.MemberCount, CustomerCount: 4 * o.MemberCount}, nil
		}
	}
	return billing.OrganizationDetail{}, &api.APIError{Method: "GET", Path: "/organizations/" + id + "/", Status: 404, Message: "Organization not found."}
}

func (b *MemoryBackend) OrganizationMembers(ctx context.Context, id string) ([]billing.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	members := b.members[id]
	out := make([]billing.Member, len(members))
	copy(out, members)
	return out, nil
}

// SetUnread changes the unread notification count.
func (b *MemoryBackend) SetUnread(n int) { b.unread.Store(int64(n)) }

func (b *MemoryBackend) UnreadCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int(b.unread.Load()), nil
}
