package admin

import (
	"time"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// CouponSchema is the coupon dialog. Changing the discount kind clears the
// value since its unit changes.
func CouponSchema(loc *time.Location) *backoffice.FormSchema {
	kinds := []string{backoffice.DiscountPercentage, backoffice.DiscountFixed, backoffice.DiscountExtendedPeriod}
	resets := map[string][]string{}
	for _, kind := range kinds {
		resets[kind] = []string{"discount_value"}
	}
	return &backoffice.FormSchema{
		Name:     "coupon",
		Location: loc,
		Fields: []backoffice.Field{
			{Name: "code", Label: "Code", Kind: backoffice.FieldUpper, Required: true},
			{Name: "description", Label: "Description", Kind: backoffice.FieldText},
			{Name: "discount_type", Label: "Discount type", Kind: backoffice.FieldChoice, Required: true, Choices: kinds, Default: backoffice.DiscountPercentage},
			{Name: "discount_value", Label: "Discount value", Kind: backoffice.FieldNumber, Required: true},
			{Name: "valid_from", Label: "Valid from", Kind: backoffice.FieldDateTime, Required: true},
			{Name: "valid_until", Label: "Valid until", Kind: backoffice.FieldDateTime, Required: true},
			{Name: "max_uses", Label: "Max uses", Kind: backoffice.FieldInteger},
			{Name: "max_uses_per_user", Label: "Max uses per user", Kind: backoffice.FieldInteger, Default: "1"},
			{Name: "is_active", Label: "Active", Kind: backoffice.FieldBool, Default: "true"},
		},
		Discriminators: []backoffice.Discriminator{{Field: "discount_type", Clear: resets}},
		JSONSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"code":              map[string]any{"type": "string", "pattern": "^[A-Z0-9_-]{3,32}$"},
				"discount_value":    map[string]any{"type": "number", "exclusiveMinimum": 0},
				"max_uses":          map[string]any{"type": "integer", "minimum": 0},
				"max_uses_per_user": map[string]any{"type": "integer", "minimum": 1},
			},
			"if": map[string]any{
				"properties": map[string]any{"discount_type": map[string]any{"const": backoffice.DiscountPercentage}},
			},
			"then": map[string]any{
				"properties": map[string]any{"discount_value": map[string]any{"maximum": 100}},
			},
		},
		Check: func(payload backoffice.Payload) map[string]string {
			return windowCheck(payload, "valid_from", "valid_until")
		},
	}
}

// PlanSchema is the subscription plan dialog.
func PlanSchema() *backoffice.FormSchema {
	return &backoffice.FormSchema{
		Name: "subscription_plan",
		Fields: []backoffice.Field{
			{Name: "name", Label: "Name", Kind: backoffice.FieldText, Required: true},
			{Name: "slug", Label: "Slug", Kind: backoffice.FieldText},
			{Name: "description", Label: "Description", Kind: backoffice.FieldText},
			{Name: "price", Label: "Price", Kind: backoffice.FieldNumber, Required: true},
			{Name: "currency", Label: "Currency", Kind: backoffice.FieldUpper, Default: "INR"},
			{Name: "billing_cycle", Label: "Billing cycle", Kind: backoffice.FieldChoice, Choices: []string{billing.CycleMonthly, billing.CycleYearly}, Default: billing.CycleMonthly},
			{Name: "trial_days", Label: "Trial days", Kind: backoffice.FieldInteger, Default: "0"},
			{Name: "max_users", Label: "Max users", Kind: backoffice.FieldInteger},
			{Name: "max_invoices", Label: "Max invoices", Kind: backoffice.FieldInteger},
			{Name: "features", Label: "Features", Kind: backoffice.FieldList},
			{Name: "is_active", Label: "Active", Kind: backoffice.FieldBool, Default: "true"},
			{Name: "sort_order", Label: "Sort order", Kind: backoffice.FieldInteger, Default: "0"},
		},
		JSONSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"price":      map[string]any{"type": "number", "minimum": 0},
				"trial_days": map[string]any{"type": "integer", "minimum": 0, "maximum": 365},
				"slug":       map[string]any{"type": "string", "pattern": "^[a-z0-9-]+$"},
			},
		},
	}
}

// StaffSchema is the staff dialog. The staff type drives the permission flags.
func StaffSchema() *backoffice.FormSchema {
	return &backoffice.FormSchema{
		Name: "staff_member",
		Fields: []backoffice.Field{
			{Name: "email", Label: "Email", Kind: backoffice.FieldText, Required: true},
			{Name: "first_name", Label: "First name", Kind: backoffice.FieldText, Required: true},
			{Name: "last_name", Label: "Last name", Kind: backoffice.FieldText},
			{Name: "phone", Label: "Phone", Kind: backoffice.FieldText},
			{Name: "staff_type", Label: "Type", Kind: backoffice.FieldChoice, Required: true, Choices: []string{billing.StaffAdmin, billing.StaffSupport, billing.StaffSales}, Default: billing.StaffSupport},
			{Name: "password", Label: "Password", Kind: backoffice.FieldSecret},
			{Name: "is_active", Label: "Active", Kind: backoffice.FieldBool, Default: "true"},
			{Name: "can_manage_coupons", Label: "Manage coupons", Kind: backoffice.FieldBool},
			{Name: "can_view_revenue", Label: "View revenue", Kind: backoffice.FieldBool},
			{Name: "can_manage_organizations", Label: "Manage organizations", Kind: backoffice.FieldBool},
			{Name: "commission_rate", Label: "Commission %", Kind: backoffice.FieldNumber},
			{Name: "sales_target", Label: "Monthly target", Kind: backoffice.FieldNumber},
		},
		Discriminators: []backoffice.Discriminator{{
			Field: "staff_type",
			Reset: map[string]map[string]string{
				billing.StaffAdmin: {
					"can_manage_coupons":       "true",
					"can_view_revenue":         "true",
					"can_manage_organizations": "true",
				},
				billing.StaffSupport: {
					"can_manage_coupons":       "false",
					"can_view_revenue":         "false",
					"can_manage_organizations": "true",
				},
				billing.StaffSales: {
					"can_manage_coupons":       "true",
					"can_view_revenue":         "true",
					"can_manage_organizations": "false",
					"commission_rate":          "10",
				},
			},
			Clear: map[string][]string{
				billing.StaffAdmin:   {"commission_rate", "sales_target"},
				billing.StaffSupport: {"commission_rate", "sales_target"},
			},
		}},
		JSONSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"email":           map[string]any{"type": "string", "pattern": "^[^@\\s]+@[^@\\s]+$"},
				"password":        map[string]any{"type": "string", "minLength": 8},
				"commission_rate": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
				"sales_target":    map[string]any{"type": "number", "minimum": 0},
			},
		},
	}
}

// TemplateSchema is the email template dialog.
func TemplateSchema() *backoffice.FormSchema {
	return &backoffice.FormSchema{
		Name: "email_template",
		Fields: []backoffice.Field{
			{Name: "name", Label: "Name", Kind: backoffice.FieldText, Required: true},
			{Name: "subject", Label: "Subject", Kind: backoffice.FieldText, Required: true},
			{Name: "body", Label: "Body", Kind: backoffice.FieldText, Required: true},
			{Name: "template_type", Label: "Type", Kind: backoffice.FieldChoice, Choices: []string{"welcome", "invoice", "reminder", "marketing", "announcement"}, Default: "marketing"},
			{Name: "variables", Label: "Variables", Kind: backoffice.FieldList},
			{Name: "is_active", Label: "Active", Kind: backoffice.FieldBool, Default: "true"},
		},
	}
}

// CampaignSchema is the email campaign dialog.
func CampaignSchema(loc *time.Location) *backoffice.FormSchema {
	return &backoffice.FormSchema{
		Name:     "email_campaign",
		Location: loc,
		Fields: []backoffice.Field{
			{Name: "name", Label: "Name", Kind: backoffice.FieldText, Required: true},
			{Name: "subject", Label: "Subject", Kind: backoffice.FieldText, Required: true},
			{Name: "template", Label: "Template", Kind: backoffice.FieldInteger, Required: true},
			{Name: "audience", Label: "Audience", Kind: backoffice.FieldChoice, Choices: []string{billing.AudienceAll, billing.AudienceActive, billing.AudienceTrial, billing.AudienceExpired}, Default: billing.AudienceAll},
			{Name: "scheduled_at", Label: "Schedule", Kind: backoffice.FieldDateTime},
		},
		JSONSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"template": map[string]any{"type": "integer", "minimum": 1},
			},
		},
	}
}

// OrganizationSchema is the organization edit dialog. The acquisition source
// clears the attribution fields of the other sources.
func OrganizationSchema() *backoffice.FormSchema {
	attribution := map[string]string{
		billing.SourceReferral: "referral_code",
		billing.SourceSalesRep: "sales_rep",
		billing.SourcePartner:  "partner_name",
	}
	sources := []string{billing.SourceDirect, billing.SourceReferral, billing.SourceSalesRep, billing.SourcePartner}
	resets := map[string][]string{}
	for _, source := range sources {
		for owner, field := range attribution {
			if owner != source {
				resets[source] = append(resets[source], field)
			}
		}
	}
	return &backoffice.FormSchema{
		Name: "organization",
		Fields: []backoffice.Field{
			{Name: "name", Label: "Name", Kind: backoffice.FieldText, Required: true},
			{Name: "email", Label: "Email", Kind: backoffice.FieldText, Required: true},
			{Name: "phone", Label: "Phone", Kind: backoffice.FieldText},
			{Name: "plan", Label: "Plan", Kind: backoffice.FieldText},
			{Name: "subscription_status", Label: "Subscription", Kind: backoffice.FieldChoice, Choices: []string{
				billing.SubscriptionTrial, billing.SubscriptionActive, billing.SubscriptionPastDue,
				billing.SubscriptionSuspended, billing.SubscriptionCancelled,
			}},
			{Name: "acquisition_source", Label: "Acquisition source", Kind: backoffice.FieldChoice, Choices: sources, Default: billing.SourceDirect},
			{Name: "referral_code", Label: "Referral code", Kind: backoffice.FieldUpper},
			{Name: "sales_rep", Label: "Sales rep", Kind: backoffice.FieldText},
			{Name: "partner_name", Label: "Partner", Kind: backoffice.FieldText},
			{Name: "is_active", Label: "Active", Kind: backoffice.FieldBool},
		},
		Discriminators: []backoffice.Discriminator{{Field: "acquisition_source", Clear: resets}},
		Check: func(payload backoffice.Payload) map[string]string {
			source, _ := payload["acquisition_source"].(string)
			field, ok := attribution[source]
			if !ok {
				return nil
			}
			if value, present := payload[field]; !present || value == nil {
				return map[string]string{field: "is required for " + source + " organizations"}
			}
			return nil
		},
	}
}

// PaymentSettingsSchema is the gateway settings form. Switching mode clears the
// secrets since test and live keys differ.
func PaymentSettingsSchema() *backoffice.FormSchema {
	secrets := []string{"secret_key", "webhook_secret"}
	return &backoffice.FormSchema{
		Name: "payment_settings",
		Fields: []backoffice.Field{
			{Name: "gateway", Label: "Gateway", Kind: backoffice.FieldChoice, Required: true, Choices: []string{"razorpay", "stripe", "paypal"}},
			{Name: "mode", Label: "Mode", Kind: backoffice.FieldChoice, Required: true, Choices: []string{billing.ModeTest, billing.ModeLive}},
			{Name: "currency", Label: "Currency", Kind: backoffice.FieldUpper},
			{Name: "public_key", Label: "Public key", Kind: backoffice.FieldText, Required: true},
			{Name: "secret_key", Label: "Secret key", Kind: backoffice.FieldSecret},
			{Name: "webhook_secret", Label: "Webhook secret", Kind: backoffice.FieldSecret},
			{Name: "upi_id", Label: "UPI ID", Kind: backoffice.FieldText},
			{Name: "bank_name", Label: "Bank", Kind: backoffice.FieldText},
			{Name: "account_number", Label: "Account number", Kind: backoffice.FieldText},
			{Name: "ifsc_code", Label: "IFSC", Kind: backoffice.FieldUpper},
			{Name: "is_active", Label: "Active", Kind: backoffice.FieldBool},
		},
		Discriminators: []backoffice.Discriminator{{
			Field: "mode",
			Clear: map[string][]string{billing.ModeTest: secrets, billing.ModeLive: secrets},
		}},
		JSONSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ifsc_code":      map[string]any{"type": "string", "pattern": "^[A-Z]{4}0[A-Z0-9]{6}$"},
				"account_number": map[string]any{"type": "string", "pattern": "^[0-9]{9,18}$"},
			},
		},
	}
}

func windowCheck(payload backoffice.Payload, fromKey, untilKey string) map[string]string {
	from, okFrom := payload[fromKey].(string)
	until, okUntil := payload[untilKey].(string)
	if !okFrom || !okUntil {
		return nil
	}
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return nil
	}
	end, err := time.Parse(time.RFC3339, until)
	if err != nil {
		return nil
	}
	if !end.After(start) {
		return map[string]string{untilKey: "must be after " + fromKey}
	}
	return nil
}
