package backoffice

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validity is the derived state of a time window.
type Validity string

const (
	ValidityUpcoming Validity = "upcoming"
	ValidityActive   Validity = "active"
	ValidityExpired  Validity = "expired"
)

// ValidityStatus classifies now against [from, until]. Both bounds are
// inclusive. Callers pass the current time on every render; the result is never
// cached.
func ValidityStatus(now, from, until time.Time) Validity {
	switch {
	case now.Before(from):
		return ValidityUpcoming
	case now.After(until):
		return ValidityExpired
	default:
		return ValidityActive
	}
}

// Discount kinds understood by DiscountDisplay.
const (
	DiscountPercentage     = "percentage"
	DiscountFixed          = "fixed"
	DiscountExtendedPeriod = "extended_period"
)

// DefaultCurrencySymbol prefixes fixed amount discounts.
const DefaultCurrencySymbol = "₹"

// DiscountDisplay renders the badge text for a discount. Unknown kinds return
// ErrUnknownDiscountKind.
func DiscountDisplay(kind string, value float64, currency string) (string, error) {
	amount := strconv.FormatFloat(value, 'f', -1, 64)
	switch kind {
	case DiscountPercentage:
		return amount + "% OFF", nil
	case DiscountFixed:
		if currency == "" {
			currency = DefaultCurrencySymbol
		}
		return currency + amount + " OFF", nil
	case DiscountExtendedPeriod:
		unit := "days"
		if value == 1 {
			unit = "day"
		}
		return fmt.Sprintf("+%s %s", amount, unit), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDiscountKind, kind)
	}
}

// ColorToken is a semantic color name understood by renderers.
type ColorToken string

const (
	ColorDefault ColorToken = "default"
	ColorInfo    ColorToken = "info"
	ColorWarning ColorToken = "warning"
	ColorSuccess ColorToken = "success"
	ColorError   ColorToken = "error"
)

var statusColors = map[string]ColorToken{
	// campaigns
	"draft":     ColorDefault,
	"scheduled": ColorInfo,
	"sending":   ColorWarning,
	"completed": ColorSuccess,
	"sent":      ColorSuccess,
	"failed":    ColorError,
	// reviews and upgrade requests
	"pending":  ColorWarning,
	"approved": ColorSuccess,
	"rejected": ColorError,
	// organizations and subscriptions
	"trial":     ColorInfo,
	"active":    ColorSuccess,
	"past_due":  ColorWarning,
	"suspended": ColorError,
	"cancelled": ColorDefault,
	// coupon validity
	string(ValidityUpcoming): ColorInfo,
	string(ValidityExpired):  ColorError,
	"inactive":               ColorDefault,
}

// StatusColor maps an entity status onto a color token. Unrecognized statuses
// fall back to ColorDefault.
func StatusColor(status string) ColorToken {
	if token, ok := statusColors[strings.ToLower(strings.TrimSpace(status))]; ok {
		return token
	}
	return ColorDefault
}
