package billing

import "time"

// Acquisition sources.
const (
	SourceDirect   = "direct"
	SourceReferral = "referral"
	SourceSalesRep = "sales_rep"
	SourcePartner  = "partner"
)

// Subscription statuses.
const (
	SubscriptionTrial     = "trial"
	SubscriptionActive    = "active"
	SubscriptionPastDue   = "past_due"
	SubscriptionSuspended = "suspended"
	SubscriptionCancelled = "cancelled"
)

// Organization is a tenant of the billing platform.
type Organization struct {
	ID                 string    `json:"id" yaml:"id"`
	Name               string    `json:"name" yaml:"name"`
	Email              string    `json:"email" yaml:"email"`
	Phone              string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	Plan               string    `json:"plan" yaml:"plan"`
	SubscriptionStatus string    `json:"subscription_status" yaml:"subscription_status"`
	AcquisitionSource  string    `json:"acquisition_source" yaml:"acquisition_source"`
	ReferralCode       string    `json:"referral_code,omitempty" yaml:"referral_code,omitempty"`
	SalesRep           string    `json:"sales_rep,omitempty" yaml:"sales_rep,omitempty"`
	PartnerName        string    `json:"partner_name,omitempty" yaml:"partner_name,omitempty"`
	IsActive           bool      `json:"is_active" yaml:"is_active"`
	MemberCount        int       `json:"member_count" yaml:"member_count"`
	CreatedAt          time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
}

func (o Organization) ItemID() string { return o.ID }

// OrganizationDetail is the single organization view with usage figures.
type OrganizationDetail struct {
	Organization  `yaml:",inline"`
	InvoiceCount  int        `json:"invoice_count" yaml:"invoice_count"`
	CustomerCount int        `json:"customer_count" yaml:"customer_count"`
	TotalRevenue  float64    `json:"total_revenue" yaml:"total_revenue"`
	TrialEndsAt   *time.Time `json:"trial_ends_at,omitempty" yaml:"trial_ends_at,omitempty"`
}

// Member is a user belonging to an organization.
type Member struct {
	ID       int       `json:"id" yaml:"id"`
	Email    string    `json:"email" yaml:"email"`
	FullName string    `json:"full_name" yaml:"full_name"`
	Role     string    `json:"role" yaml:"role"`
	IsActive bool      `json:"is_active" yaml:"is_active"`
	JoinedAt time.Time `json:"joined_at,omitzero" yaml:"joined_at,omitempty"`
}

func (m Member) ItemID() int { return m.ID }
