package billing

import "time"

// Staff types.
const (
	StaffAdmin   = "admin"
	StaffSupport = "support"
	StaffSales   = "sales"
)

// StaffMember is an internal operator account.
type StaffMember struct {
	ID                     int       `json:"id" yaml:"id"`
	Email                  string    `json:"email" yaml:"email"`
	FirstName              string    `json:"first_name" yaml:"first_name"`
	LastName               string    `json:"last_name" yaml:"last_name"`
	Phone                  string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	StaffType              string    `json:"staff_type" yaml:"staff_type"`
	IsActive               bool      `json:"is_active" yaml:"is_active"`
	CanManageCoupons       bool      `json:"can_manage_coupons" yaml:"can_manage_coupons"`
	CanViewRevenue         bool      `json:"can_view_revenue" yaml:"can_view_revenue"`
	CanManageOrganizations bool      `json:"can_manage_organizations" yaml:"can_manage_organizations"`
	CommissionRate         float64   `json:"commission_rate,omitempty" yaml:"commission_rate,omitempty"`
	SalesTarget            float64   `json:"sales_target,omitempty" yaml:"sales_target,omitempty"`
	DateJoined             time.Time `json:"date_joined,omitzero" yaml:"date_joined,omitempty"`
}

func (s StaffMember) ItemID() int { return s.ID }

// FullName joins first and last name.
func (s StaffMember) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	default:
		return s.FirstName + " " + s.LastName
	}
}

// StaffStats summarizes the staff roster.
type StaffStats struct {
	TotalStaff      int            `json:"total_staff" yaml:"total_staff"`
	ActiveStaff     int            `json:"active_staff" yaml:"active_staff"`
	ByType          map[string]int `json:"by_type" yaml:"by_type"`
	TotalReferrals  int            `json:"total_referrals" yaml:"total_referrals"`
	TotalCommission float64        `json:"total_commission" yaml:"total_commission"`
}
