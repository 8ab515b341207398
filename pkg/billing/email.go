package billing

import "time"

// Campaign statuses.
const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignSending   = "sending"
	CampaignCompleted = "completed"
	CampaignFailed    = "failed"
)

// Campaign audiences.
const (
	AudienceAll     = "all"
	AudienceActive  = "active"
	AudienceTrial   = "trial"
	AudienceExpired = "expired"
)

// EmailTemplate is a reusable message body with {{variable}} placeholders.
type EmailTemplate struct {
	ID           int      `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Subject      string   `json:"subject" yaml:"subject"`
	Body         string   `json:"body" yaml:"body"`
	TemplateType string   `json:"template_type" yaml:"template_type"`
	Variables    []string `json:"variables,omitempty" yaml:"variables,omitempty"`
	IsActive     bool     `json:"is_active" yaml:"is_active"`
}

func (t EmailTemplate) ItemID() int { return t.ID }

// EmailCampaign is a bulk send of a template to an audience.
type EmailCampaign struct {
	ID              int        `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Subject         string     `json:"subject" yaml:"subject"`
	TemplateID      int        `json:"template,omitempty" yaml:"template,omitempty"`
	Audience        string     `json:"audience" yaml:"audience"`
	Status          string     `json:"status" yaml:"status"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty" yaml:"scheduled_at,omitempty"`
	TotalRecipients int        `json:"total_recipients" yaml:"total_recipients"`
	SentCount       int        `json:"sent_count" yaml:"sent_count"`
	FailedCount     int        `json:"failed_count" yaml:"failed_count"`
	CreatedAt       time.Time  `json:"created_at,omitzero" yaml:"created_at,omitempty"`
}

func (c EmailCampaign) ItemID() int { return c.ID }

// SendSummary is the response of a campaign send.
type SendSummary struct {
	SentCount   int    `json:"sent_count" yaml:"sent_count"`
	FailedCount int    `json:"failed_count" yaml:"failed_count"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
}
