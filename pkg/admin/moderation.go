package admin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// ReviewScreen moderates customer reviews.
type ReviewScreen struct {
	*backoffice.Controller[billing.Review, int]
	deps Deps
}

// NewReviewScreen wires the review controller. Reviews are read only apart
// from the moderation actions.
func NewReviewScreen(remote backoffice.Remote[billing.Review, int], deps Deps) (*ReviewScreen, error) {
	deps = deps.normalize()
	ctrl, err := backoffice.NewController(controllerOptions(deps, "review", "reviews", remote, nil,
		backoffice.ActionSpec{
			Name:    "approve",
			Label:   "Approve",
			Success: func(backoffice.ActionResult) string { return "Review approved" },
		},
		backoffice.ActionSpec{
			Name:    "reject",
			Label:   "Reject",
			Confirm: true,
			Prompt:  "Reject this review? It will not be shown publicly.",
			Success: func(backoffice.ActionResult) string { return "Review rejected" },
		},
		backoffice.ActionSpec{
			Name:  "toggle-featured",
			Label: "Toggle featured",
			Success: func(r backoffice.ActionResult) string {
				if featured, _ := r["is_featured"].(bool); featured {
					return "Review featured"
				}
				return "Review removed from featured"
			},
		},
	))
	if err != nil {
		return nil, err
	}
	return &ReviewScreen{Controller: ctrl, deps: deps}, nil
}

// LoadStatus lists reviews in one moderation status; empty lists all.
func (s *ReviewScreen) LoadStatus(ctx context.Context, status string) error {
	if status == "" {
		return s.Load(ctx, backoffice.Filter{})
	}
	return s.Load(ctx, backoffice.Filter{"status": status})
}

func (s *ReviewScreen) Approve(ctx context.Context, id int) error {
	_, err := s.Do(ctx, id, "approve", nil)
	return err
}

func (s *ReviewScreen) Reject(ctx context.Context, id int) error {
	_, err := s.Do(ctx, id, "reject", nil)
	return err
}

func (s *ReviewScreen) ToggleFeatured(ctx context.Context, id int) error {
	_, err := s.Do(ctx, id, "toggle-featured", nil)
	return err
}

// Entry exposes the screen to the CLI.
func (s *ReviewScreen) Entry() Entry {
	return newEntry("reviews", s.Controller, parseIntID, s.table, false)
}

func (s *ReviewScreen) table(items []billing.Review) Table {
	t := Table{Columns: []string{"ID", "ORGANIZATION", "AUTHOR", "RATING", "TITLE", "FEATURED", "STATUS"}}
	for _, r := range items {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.ID), r.OrganizationName, r.AuthorName, fmt.Sprintf("%d/5", r.Rating),
			r.Title, yesNo(r.IsFeatured), r.Status,
		})
		t.Status = append(t.Status, r.Status)
	}
	return t
}

// UpgradeScreen processes plan upgrade requests. Only pending requests can be
// approved or rejected.
type UpgradeScreen struct {
	*backoffice.Controller[billing.UpgradeRequest, int]
	deps Deps
}

// NewUpgradeScreen wires the upgrade request controller.
func NewUpgradeScreen(remote backoffice.Remote[billing.UpgradeRequest, int], deps Deps) (*UpgradeScreen, error) {
	deps = deps.normalize()
	ctrl, err := backoffice.NewController(controllerOptions(deps, "upgrade request", "upgrade requests", remote, nil,
		backoffice.ActionSpec{
			Name:    "approve",
			Label:   "Approve",
			Confirm: true,
			Prompt:  "Approve this upgrade? The organization moves to the requested plan immediately.",
			Success: func(backoffice.ActionResult) string { return "Upgrade request approved" },
		},
		backoffice.ActionSpec{
			Name:    "reject",
			Label:   "Reject",
			Confirm: true,
			Prompt:  "Reject this upgrade request?",
			Success: func(backoffice.ActionResult) string { return "Upgrade request rejected" },
		},
	))
	if err != nil {
		return nil, err
	}
	return &UpgradeScreen{Controller: ctrl, deps: deps}, nil
}

// LoadStatus lists requests in one status; empty lists all.
func (s *UpgradeScreen) LoadStatus(ctx context.Context, status string) error {
	if status == "" {
		return s.Load(ctx, backoffice.Filter{})
	}
	return s.Load(ctx, backoffice.Filter{"status": status})
}

// Approve moves the organization to the requested plan. notes and paymentRef
// are optional.
func (s *UpgradeScreen) Approve(ctx context.Context, id int, notes, paymentRef string) error {
	payload := backoffice.Payload{}
	if notes != "" {
		payload["admin_notes"] = notes
	}
	if paymentRef != "" {
		payload["payment_reference"] = paymentRef
	}
	return s.transition(ctx, id, "approve", payload)
}

// Reject declines the request with optional notes for the organization.
func (s *UpgradeScreen) Reject(ctx context.Context, id int, notes string) error {
	payload := backoffice.Payload{}
	if notes != "" {
		payload["admin_notes"] = notes
	}
	return s.transition(ctx, id, "reject", payload)
}

func (s *UpgradeScreen) transition(ctx context.Context, id int, action string, payload backoffice.Payload) error {
	if err := s.pending(ctx, id, action, payload); err != nil {
		return err
	}
	_, err := s.Do(ctx, id, action, payload)
	return err
}

// pending allows a transition only from the pending status. A request missing
// from the list triggers one reload before it is reported as not found.
func (s *UpgradeScreen) pending(ctx context.Context, id int, action string, _ backoffice.Payload) error {
	req, ok := s.Find(id)
	if !ok {
		if err := s.Load(ctx, nil); err != nil {
			return err
		}
		if req, ok = s.Find(id); !ok {
			return fmt.Errorf("%w: upgrade request %d", ErrNotFound, id)
		}
	}
	if !req.Pending() {
		return fmt.Errorf("%w: cannot %s a request that is %s", ErrInvalidTransition, action, req.Status)
	}
	return nil
}

// Entry exposes the screen to the CLI.
func (s *UpgradeScreen) Entry() Entry {
	e := newEntry("upgrades", s.Controller, parseIntID, s.table, false)
	e.guard = s.pending
	return e
}

func (s *UpgradeScreen) table(items []billing.UpgradeRequest) Table {
	t := Table{Columns: []string{"ID", "ORGANIZATION", "FROM", "TO", "REQUESTED", "PROCESSED", "STATUS"}}
	for _, u := range items {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(u.ID), u.OrganizationName, u.CurrentPlan, u.RequestedPlan,
			cellTime(u.RequestedAt, s.deps.Location), cellTimePtr(u.ProcessedAt, s.deps.Location), u.Status,
		})
		t.Status = append(t.Status, u.Status)
	}
	return t
}
