package admin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// CouponScreen manages discount codes.
type CouponScreen struct {
	*backoffice.Controller[billing.Coupon, int]
	deps Deps
}

// NewCouponScreen wires the coupon controller.
func NewCouponScreen(remote backoffice.Remote[billing.Coupon, int], deps Deps) (*CouponScreen, error) {
	deps = deps.normalize()
	ctrl, err := backoffice.NewController(controllerOptions(deps, "coupon", "coupons", remote, CouponSchema(deps.Location),
		backoffice.ActionSpec{
			Name:    "deactivate",
			Label:   "Deactivate",
			Confirm: true,
			Prompt:  "Deactivate this coupon? It can no longer be redeemed at checkout.",
			Success: func(backoffice.ActionResult) string { return "Coupon deactivated successfully" },
		},
	))
	if err != nil {
		return nil, err
	}
	return &CouponScreen{Controller: ctrl, deps: deps}, nil
}

// Deactivate stops a coupon from being redeemed.
func (s *CouponScreen) Deactivate(ctx context.Context, id int) error {
	_, err := s.Do(ctx, id, "deactivate", nil)
	return err
}

// Status is the derived validity of a coupon at the screen clock's now.
func (s *CouponScreen) Status(c billing.Coupon) string {
	return c.Validity(s.deps.Clock.Now())
}

// Entry exposes the screen to the CLI.
func (s *CouponScreen) Entry() Entry {
	return newEntry("coupons", s.Controller, parseIntID, s.table, true)
}

func (s *CouponScreen) table(items []billing.Coupon) Table {
	t := Table{Columns: []string{"ID", "CODE", "DISCOUNT", "FROM", "UNTIL", "USES", "STATUS"}}
	for _, c := range items {
		badge, err := c.Badge(s.deps.Currency)
		if err != nil {
			badge = fmt.Sprintf("%s %v", c.DiscountType, c.DiscountValue)
		}
		uses := strconv.Itoa(c.CurrentUsageCount)
		if c.MaxUses > 0 {
			uses += "/" + strconv.Itoa(c.MaxUses)
		}
		status := s.Status(c)
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(c.ID), c.Code, badge,
			cellTime(c.ValidFrom, s.deps.Location), cellTime(c.ValidUntil, s.deps.Location),
			uses, status,
		})
		t.Status = append(t.Status, status)
	}
	return t
}

// PlanScreen manages subscription plans, listed by sort order.
type PlanScreen struct {
	*backoffice.Controller[billing.SubscriptionPlan, int]
	deps Deps
}

// NewPlanScreen wires the plan controller.
func NewPlanScreen(remote backoffice.Remote[billing.SubscriptionPlan, int], deps Deps) (*PlanScreen, error) {
	deps = deps.normalize()
	opts := controllerOptions(deps, "plan", "plans", remote, PlanSchema())
	opts.Less = billing.PlanOrder
	ctrl, err := backoffice.NewController(opts)
	if err != nil {
		return nil, err
	}
	return &PlanScreen{Controller: ctrl, deps: deps}, nil
}

// Entry exposes the screen to the CLI.
func (s *PlanScreen) Entry() Entry {
	return newEntry("plans", s.Controller, parseIntID, s.table, true)
}

func (s *PlanScreen) table(items []billing.SubscriptionPlan) Table {
	t := Table{Columns: []string{"ID", "NAME", "PRICE", "CYCLE", "TRIAL", "USERS", "ACTIVE"}}
	for _, p := range items {
		status := "inactive"
		if p.IsActive {
			status = "active"
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(p.ID), p.Name, fmt.Sprintf("%s %s", p.Currency, strconv.FormatFloat(p.Price, 'f', 2, 64)),
			p.BillingCycle, fmt.Sprintf("%dd", p.TrialDays), strconv.Itoa(p.MaxUsers), yesNo(p.IsActive),
		})
		t.Status = append(t.Status, status)
	}
	return t
}
