package admin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// TemplateScreen manages email templates.
type TemplateScreen struct {
	*backoffice.Controller[billing.EmailTemplate, int]
}

// NewTemplateScreen wires the template controller.
func NewTemplateScreen(remote backoffice.Remote[billing.EmailTemplate, int], deps Deps) (*TemplateScreen, error) {
	deps = deps.normalize()
	ctrl, err := backoffice.NewController(controllerOptions(deps, "template", "templates", remote, TemplateSchema()))
	if err != nil {
		return nil, err
	}
	return &TemplateScreen{Controller: ctrl}, nil
}

// Entry exposes the screen to the CLI.
func (s *TemplateScreen) Entry() Entry {
	return newEntry("templates", s.Controller, parseIntID, s.table, true)
}

func (s *TemplateScreen) table(items []billing.EmailTemplate) Table {
	t := Table{Columns: []string{"ID", "NAME", "TYPE", "SUBJECT", "ACTIVE"}}
	for _, tpl := range items {
		status := "inactive"
		if tpl.IsActive {
			status = "active"
		}
		t.Rows = append(t.Rows, []string{strconv.Itoa(tpl.ID), tpl.Name, tpl.TemplateType, tpl.Subject, yesNo(tpl.IsActive)})
		t.Status = append(t.Status, status)
	}
	return t
}

// CampaignScreen creates and sends bulk email campaigns. Campaigns are not
// edited or deleted once created.
type CampaignScreen struct {
	*backoffice.Controller[billing.EmailCampaign, int]
	deps Deps
}

// NewCampaignScreen wires the campaign controller.
func NewCampaignScreen(remote backoffice.Remote[billing.EmailCampaign, int], deps Deps) (*CampaignScreen, error) {
	deps = deps.normalize()
	ctrl, err := backoffice.NewController(controllerOptions(deps, "campaign", "campaigns", remote, CampaignSchema(deps.Location),
		backoffice.ActionSpec{
			Name:    "send",
			Label:   "Send",
			Confirm: true,
			Prompt:  "Send this campaign now? Emails go out immediately and cannot be recalled.",
			Success: func(r backoffice.ActionResult) string {
				return fmt.Sprintf("Campaign sent: %d delivered, %d failed", r.Int("sent_count"), r.Int("failed_count"))
			},
		},
	))
	if err != nil {
		return nil, err
	}
	return &CampaignScreen{Controller: ctrl, deps: deps}, nil
}

// Send dispatches a saved campaign.
func (s *CampaignScreen) Send(ctx context.Context, id int) (billing.SendSummary, error) {
	result, err := s.Do(ctx, id, "send", nil)
	if err != nil {
		return billing.SendSummary{}, err
	}
	return summaryOf(result), nil
}

// CreateAndSend saves the open create dialog and sends the new campaign in one
// step. When the send fails the campaign stays saved as a draft.
func (s *CampaignScreen) CreateAndSend(ctx context.Context) (billing.EmailCampaign, billing.SendSummary, error) {
	saved, err := s.Submit(ctx)
	if err != nil {
		return billing.EmailCampaign{}, billing.SendSummary{}, err
	}
	summary, err := s.Send(ctx, saved.ID)
	return saved, summary, err
}

func summaryOf(r backoffice.ActionResult) billing.SendSummary {
	return billing.SendSummary{
		SentCount:   r.Int("sent_count"),
		FailedCount: r.Int("failed_count"),
		Message:     r.String("message"),
	}
}

// Entry exposes the screen to the CLI.
func (s *CampaignScreen) Entry() Entry {
	return newEntry("campaigns", s.Controller, parseIntID, s.table, true)
}

func (s *CampaignScreen) table(items []billing.EmailCampaign) Table {
	t := Table{Columns: []string{"ID", "NAME", "AUDIENCE", "SCHEDULED", "SENT", "FAILED", "STATUS"}}
	for _, c := range items {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(c.ID), c.Name, c.Audience, cellTimePtr(c.ScheduledAt, s.deps.Location),
			strconv.Itoa(c.SentCount), strconv.Itoa(c.FailedCount), c.Status,
		})
		t.Status = append(t.Status, c.Status)
	}
	return t
}
