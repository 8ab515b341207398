package admin

import (
	"context"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// OrganizationDirectory serves the per-organization views that are not part of
// the list.
type OrganizationDirectory interface {
	OrganizationDetail(ctx context.Context, id string) (billing.OrganizationDetail, error)
	OrganizationMembers(ctx context.Context, id string) ([]billing.Member, error)
}

// OrganizationScreen manages tenants. Organizations sign up on their own, so
// there is no create dialog.
type OrganizationScreen struct {
	*backoffice.Controller[billing.Organization, string]
	directory OrganizationDirectory
	deps      Deps
}

// NewOrganizationScreen wires the organization controller.
func NewOrganizationScreen(remote backoffice.Remote[billing.Organization, string], directory OrganizationDirectory, deps Deps) (*OrganizationScreen, error) {
	deps = deps.normalize()
	opts := controllerOptions(deps, "organization", "organizations", remote, OrganizationSchema())
	opts.DeletePrompt = "Delete this organization? All of its invoices, customers and members are removed and this cannot be undone."
	ctrl, err := backoffice.NewController(opts)
	if err != nil {
		return nil, err
	}
	return &OrganizationScreen{Controller: ctrl, directory: directory, deps: deps}, nil
}

// Search lists organizations matching a name or email fragment.
func (s *OrganizationScreen) Search(ctx context.Context, query string) error {
	if query == "" {
		return s.Load(ctx, backoffice.Filter{})
	}
	return s.Load(ctx, backoffice.Filter{"search": query})
}

// Detail fetches the usage view of one organization.
func (s *OrganizationScreen) Detail(ctx context.Context, id string) (billing.OrganizationDetail, error) {
	detail, err := s.directory.OrganizationDetail(ctx, id)
	if err != nil {
		s.Feedback().Notify(backoffice.UserMessage(err, "Failed to load organization"), backoffice.SeverityError)
		return billing.OrganizationDetail{}, err
	}
	return detail, nil
}

// Members lists the users of one organization.
func (s *OrganizationScreen) Members(ctx context.Context, id string) ([]billing.Member, error) {
	members, err := s.directory.OrganizationMembers(ctx, id)
	if err != nil {
		s.Feedback().Notify(backoffice.UserMessage(err, "Failed to load members"), backoffice.SeverityError)
		return nil, err
	}
	return members, nil
}

// Entry exposes the screen to the CLI.
func (s *OrganizationScreen) Entry() Entry {
	return newEntry("organizations", s.Controller, parseStringID, s.table, false)
}

func (s *OrganizationScreen) table(items []billing.Organization) Table {
	t := Table{Columns: []string{"ID", "NAME", "EMAIL", "PLAN", "SOURCE", "MEMBERS", "STATUS"}}
	for _, o := range items {
		status := o.SubscriptionStatus
		if !o.IsActive {
			status = "inactive"
		}
		t.Rows = append(t.Rows, []string{
			o.ID, o.Name, o.Email, cellText(o.Plan), cellText(o.AcquisitionSource),
			itoa(o.MemberCount), status,
		})
		t.Status = append(t.Status, status)
	}
	return t
}
