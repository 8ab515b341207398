package admin

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// Workspace is the whole back office: one screen per entity sharing a single
// feedback channel.
type Workspace struct {
	Coupons         *CouponScreen
	Plans           *PlanScreen
	Staff           *StaffScreen
	Templates       *TemplateScreen
	Campaigns       *CampaignScreen
	Reviews         *ReviewScreen
	Upgrades        *UpgradeScreen
	Organizations   *OrganizationScreen
	PaymentSettings *PaymentSettingsScreen

	backend Backend
	deps    Deps
	entries map[string]Entry
}

// NewWorkspace builds every screen over backend.
func NewWorkspace(backend Backend, deps Deps) (*Workspace, error) {
	deps = deps.normalize()
	w := &Workspace{backend: backend, deps: deps}
	var err error
	if w.Coupons, err = NewCouponScreen(backend.Coupons(), deps); err != nil {
		return nil, err
	}
	if w.Plans, err = NewPlanScreen(backend.Plans(), deps); err != nil {
		return nil, err
	}
	if w.Staff, err = NewStaffScreen(backend.Staff(), backend, deps); err != nil {
		return nil, err
	}
	if w.Templates, err = NewTemplateScreen(backend.Templates(), deps); err != nil {
		return nil, err
	}
	if w.Campaigns, err = NewCampaignScreen(backend.Campaigns(), deps); err != nil {
		return nil, err
	}
	if w.Reviews, err = NewReviewScreen(backend.Reviews(), deps); err != nil {
		return nil, err
	}
	if w.Upgrades, err = NewUpgradeScreen(backend.Upgrades(), deps); err != nil {
		return nil, err
	}
	if w.Organizations, err = NewOrganizationScreen(backend.Organizations(), backend, deps); err != nil {
		return nil, err
	}
	if w.PaymentSettings, err = NewPaymentSettingsScreen(backend.PaymentSettings(), deps); err != nil {
		return nil, err
	}
	w.entries = map[string]Entry{}
	for _, e := range []Entry{
		w.Coupons.Entry(), w.Plans.Entry(), w.Staff.Entry(), w.Templates.Entry(), w.Campaigns.Entry(),
		w.Reviews.Entry(), w.Upgrades.Entry(), w.Organizations.Entry(), w.PaymentSettings.Entry(),
	} {
		w.entries[e.Key()] = e
	}
	return w, nil
}

// Feedback is the channel every screen reports to.
func (w *Workspace) Feedback() backoffice.Notifier { return w.deps.Feedback }

// Backend returns the backend the screens were built over.
func (w *Workspace) Backend() Backend { return w.backend }

// Entry returns the screen registered under key.
func (w *Workspace) Entry(key string) (Entry, error) {
	e, ok := w.entries[key]
	if !ok {
		return nil, fmt.Errorf("admin: unknown resource %q", key)
	}
	return e, nil
}

// Keys lists the resource keys in alphabetical order.
func (w *Workspace) Keys() []string {
	keys := make([]string, 0, len(w.entries))
	for k := range w.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Overview is the landing page summary.
type Overview struct {
	Coupons         int `json:"coupons" yaml:"coupons"`
	ActiveCoupons   int `json:"active_coupons" yaml:"active_coupons"`
	Organizations   int `json:"organizations" yaml:"organizations"`
	Staff           int `json:"staff" yaml:"staff"`
	PendingReviews  int `json:"pending_reviews" yaml:"pending_reviews"`
	PendingUpgrades int `json:"pending_upgrades" yaml:"pending_upgrades"`
	Unread          int `json:"unread_notifications" yaml:"unread_notifications"`
}

// Overview fetches the summary counts concurrently straight from the backend,
// leaving the screens' lists and filters untouched. The first failure cancels
// the rest.
func (w *Workspace) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		coupons, err := w.backend.Coupons().List(ctx, nil)
		if err != nil {
			return fmt.Errorf("coupons: %w", err)
		}
		now := w.deps.Clock.Now()
		out.Coupons = len(coupons)
		for _, c := range coupons {
			if c.Validity(now) == string(backoffice.ValidityActive) {
				out.ActiveCoupons++
			}
		}
		return nil
	})
	g.Go(func() error {
		orgs, err := w.backend.Organizations().List(ctx, nil)
		if err != nil {
			return fmt.Errorf("organizations: %w", err)
		}
		out.Organizations = len(orgs)
		return nil
	})
	g.Go(func() error {
		staff, err := w.backend.Staff().List(ctx, nil)
		if err != nil {
			return fmt.Errorf("staff: %w", err)
		}
		out.Staff = len(staff)
		return nil
	})
	g.Go(func() error {
		reviews, err := w.backend.Reviews().List(ctx, backoffice.Filter{"status": billing.StatusPending})
		if err != nil {
			return fmt.Errorf("reviews: %w", err)
		}
		out.PendingReviews = len(reviews)
		return nil
	})
	g.Go(func() error {
		upgrades, err := w.backend.Upgrades().List(ctx, backoffice.Filter{"status": billing.StatusPending})
		if err != nil {
			return fmt.Errorf("upgrades: %w", err)
		}
		out.PendingUpgrades = len(upgrades)
		return nil
	})
	g.Go(func() error {
		unread, err := w.backend.UnreadCount(ctx)
		if err != nil {
			return fmt.Errorf("notifications: %w", err)
		}
		out.Unread = unread
		return nil
	})
	if err := g.Wait(); err != nil {
		w.deps.Feedback.Notify(backoffice.UserMessage(err, "Failed to load overview"), backoffice.SeverityError)
		return Overview{}, err
	}
	return out, nil
}

// Close ends every screen's lifetime.
func (w *Workspace) Close() {
	for _, e := range w.entries {
		e.Close()
	}
}
