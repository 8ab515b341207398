package admin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/api"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// Backend supplies a remote per screen plus the read-only views that sit
// outside the CRUD lists.
type Backend interface {
	StaffStatsSource
	OrganizationDirectory
	backoffice.UnreadCounter

	Coupons() backoffice.Remote[billing.Coupon, int]
	Plans() backoffice.Remote[billing.SubscriptionPlan, int]
	Staff() backoffice.Remote[billing.StaffMember, int]
	Templates() backoffice.Remote[billing.EmailTemplate, int]
	Campaigns() backoffice.Remote[billing.EmailCampaign, int]
	Reviews() backoffice.Remote[billing.Review, int]
	Upgrades() backoffice.Remote[billing.UpgradeRequest, int]
	Organizations() backoffice.Remote[billing.Organization, string]
	PaymentSettings() backoffice.Remote[billing.PaymentSettings, int]
}

// HTTPBackend talks to the super-admin REST API.
type HTTPBackend struct {
	client        *api.Client
	coupons       *api.Resource[billing.Coupon, int]
	plans         *api.Resource[billing.SubscriptionPlan, int]
	staff         *api.Resource[billing.StaffMember, int]
	templates     *api.Resource[billing.EmailTemplate, int]
	campaigns     *api.Resource[billing.EmailCampaign, int]
	reviews       *api.Resource[billing.Review, int]
	upgrades      *api.Resource[billing.UpgradeRequest, int]
	organizations *api.Resource[billing.Organization, string]
	payments      *api.Singleton[billing.PaymentSettings, int]
}

var _ Backend = (*HTTPBackend)(nil)

// NewHTTPBackend maps every screen onto its collection endpoint.
func NewHTTPBackend(client *api.Client) *HTTPBackend {
	return &HTTPBackend{
		client:    client,
		coupons:   api.NewResource[billing.Coupon, int](client, api.ResourceConfig{Path: "/coupons/"}),
		plans:     api.NewResource[billing.SubscriptionPlan, int](client, api.ResourceConfig{Path: "/subscription-plans/"}),
		staff:     api.NewResource[billing.StaffMember, int](client, api.ResourceConfig{Path: "/staff/"}),
		templates: api.NewResource[billing.EmailTemplate, int](client, api.ResourceConfig{Path: "/email/templates/"}),
		campaigns: api.NewResource[billing.EmailCampaign, int](client, api.ResourceConfig{
			Path:     "/email/campaigns/",
			NoUpdate: true,
			NoDelete: true,
		}),
		reviews: api.NewResource[billing.Review, int](client, api.ResourceConfig{
			Path:          "/reviews/",
			ReadOnly:      true,
			ActionMethods: map[string]string{"toggle-featured": http.MethodPost},
		}),
		upgrades: api.NewResource[billing.UpgradeRequest, int](client, api.ResourceConfig{Path: "/upgrade-requests/", ReadOnly: true}),
		organizations: api.NewResource[billing.Organization, string](client, api.ResourceConfig{
			Path:         "/organizations/",
			UpdateMethod: http.MethodPatch,
			NoCreate:     true,
			DeleteQuery:  url.Values{"cascade": {"true"}},
		}),
		payments: api.NewSingleton[billing.PaymentSettings, int](client, "/payment-settings/"),
	}
}

func (b *HTTPBackend) Coupons() backoffice.Remote[billing.Coupon, int] { return b.coupons }
func (b *HTTPBackend) Plans() backoffice.Remote[billing.SubscriptionPlan, int] {
	return b.plans
}
func (b *HTTPBackend) Staff() backoffice.Remote[billing.StaffMember, int] { return b.staff }
func (b *HTTPBackend) Templates() backoffice.Remote[billing.EmailTemplate, int] {
	return b.templates
}
func (b *HTTPBackend) Campaigns() backoffice.Remote[billing.EmailCampaign, int] {
	return b.campaigns
}
func (b *HTTPBackend) Reviews() backoffice.Remote[billing.Review, int] { return b.reviews }
func (b *HTTPBackend) Upgrades() backoffice.Remote[billing.UpgradeRequest, int] {
	return b.upgrades
}
func (b *HTTPBackend) Organizations() backoffice.Remote[billing.Organization, string] {
	return b.organizations
}
func (b *HTTPBackend) PaymentSettings() backoffice.Remote[billing.PaymentSettings, int] {
	return b.payments
}

func (b *HTTPBackend) StaffStats(ctx context.Context) (billing.StaffStats, error) {
	var stats billing.StaffStats
	err := b.client.Get(ctx, "/staff/stats/", nil, &stats)
	return stats, err
}

func (b *HTTPBackend) OrganizationDetail(ctx context.Context, id string) (billing.OrganizationDetail, error) {
	var detail billing.OrganizationDetail
	err := b.client.Get(ctx, b.organizations.ItemPath(id), nil, &detail)
	return detail, err
}

func (b *HTTPBackend) OrganizationMembers(ctx context.Context, id string) ([]billing.Member, error) {
	return api.Sub[billing.Member](ctx, b.client, b.organizations.Path(), id, "members")
}

func (b *HTTPBackend) UnreadCount(ctx context.Context) (int, error) {
	return b.client.UnreadCount(ctx)
}
