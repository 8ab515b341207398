package billing

import "time"

// Moderation statuses shared by reviews and upgrade requests.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Review is customer feedback awaiting moderation.
type Review struct {
	ID               int       `json:"id" yaml:"id"`
	OrganizationName string    `json:"organization_name" yaml:"organization_name"`
	AuthorName       string    `json:"author_name" yaml:"author_name"`
	Rating           int       `json:"rating" yaml:"rating"`
	Title            string    `json:"title" yaml:"title"`
	Comment          string    `json:"comment" yaml:"comment"`
	Status           string    `json:"status" yaml:"status"`
	IsFeatured       bool      `json:"is_featured" yaml:"is_featured"`
	CreatedAt        time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
}

func (r Review) ItemID() int { return r.ID }

// UpgradeRequest is an organization asking to move to another plan.
type UpgradeRequest struct {
	ID               int        `json:"id" yaml:"id"`
	OrganizationID   string     `json:"organization" yaml:"organization"`
	OrganizationName string     `json:"organization_name" yaml:"organization_name"`
	CurrentPlan      string     `json:"current_plan" yaml:"current_plan"`
	RequestedPlan    string     `json:"requested_plan" yaml:"requested_plan"`
	Status           string     `json:"status" yaml:"status"`
	AdminNotes       string     `json:"admin_notes,omitempty" yaml:"admin_notes,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty" yaml:"payment_reference,omitempty"`
	RequestedAt      time.Time  `json:"requested_at,omitzero" yaml:"requested_at,omitempty"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty" yaml:"processed_at,omitempty"`
}

func (u UpgradeRequest) ItemID() int { return u.ID }

// Pending reports whether the request can still be approved or rejected.
func (u UpgradeRequest) Pending() bool { return u.Status == StatusPending }
