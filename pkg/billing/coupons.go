package billing

import (
	"time"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// Coupon is a discount code redeemable at checkout.
type Coupon struct {
	ID                int       `json:"id" yaml:"id"`
	Code              string    `json:"code" yaml:"code"`
	Description       string    `json:"description,omitempty" yaml:"description,omitempty"`
	DiscountType      string    `json:"discount_type" yaml:"discount_type"`
	DiscountValue     float64   `json:"discount_value" yaml:"discount_value"`
	ValidFrom         time.Time `json:"valid_from" yaml:"valid_from"`
	ValidUntil        time.Time `json:"valid_until" yaml:"valid_until"`
	MaxUses           int       `json:"max_uses,omitempty" yaml:"max_uses,omitempty"`
	MaxUsesPerUser    int       `json:"max_uses_per_user" yaml:"max_uses_per_user"`
	CurrentUsageCount int       `json:"current_usage_count" yaml:"current_usage_count"`
	ApplicablePlans   []int     `json:"applicable_plans,omitempty" yaml:"applicable_plans,omitempty"`
	IsActive          bool      `json:"is_active" yaml:"is_active"`
	CreatedAt         time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
}

func (c Coupon) ItemID() int { return c.ID }

// Validity reports the coupon window state at now. Deactivated coupons are
// reported as inactive regardless of the window.
func (c Coupon) Validity(now time.Time) string {
	if !c.IsActive {
		return "inactive"
	}
	return string(backoffice.ValidityStatus(now, c.ValidFrom, c.ValidUntil))
}

// Badge renders the discount label, e.g. "20% OFF".
func (c Coupon) Badge(currency string) (string, error) {
	return backoffice.DiscountDisplay(c.DiscountType, c.DiscountValue, currency)
}

// UsesLeft returns the remaining global redemptions, or -1 when unlimited.
func (c Coupon) UsesLeft() int {
	if c.MaxUses <= 0 {
		return -1
	}
	left := c.MaxUses - c.CurrentUsageCount
	if left < 0 {
		return 0
	}
	return left
}

// Billing cycles.
const (
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// SubscriptionPlan is a purchasable tier.
type SubscriptionPlan struct {
	ID           int      `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Slug         string   `json:"slug" yaml:"slug"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Price        float64  `json:"price" yaml:"price"`
	Currency     string   `json:"currency" yaml:"currency"`
	BillingCycle string   `json:"billing_cycle" yaml:"billing_cycle"`
	TrialDays    int      `json:"trial_days" yaml:"trial_days"`
	MaxUsers     int      `json:"max_users" yaml:"max_users"`
	MaxInvoices  int      `json:"max_invoices" yaml:"max_invoices"`
	Features     []string `json:"features" yaml:"features"`
	IsActive     bool     `json:"is_active" yaml:"is_active"`
	SortOrder    int      `json:"sort_order" yaml:"sort_order"`
}

func (p SubscriptionPlan) ItemID() int { return p.ID }

// PlanOrder sorts plans by sort_order, then id.
func PlanOrder(a, b SubscriptionPlan) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	return a.ID < b.ID
}
