package billing

// Gateway modes.
const (
	ModeTest = "test"
	ModeLive = "live"
)

// PaymentSettings is the platform wide payment gateway configuration. Secret
// fields come back masked and are only sent when replaced.
type PaymentSettings struct {
	ID            int    `json:"id" yaml:"id"`
	Gateway       string `json:"gateway" yaml:"gateway"`
	Mode          string `json:"mode" yaml:"mode"`
	Currency      string `json:"currency" yaml:"currency"`
	PublicKey     string `json:"public_key" yaml:"public_key"`
	SecretKey     string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
	WebhookSecret string `json:"webhook_secret,omitempty" yaml:"webhook_secret,omitempty"`
	UPIID         string `json:"upi_id,omitempty" yaml:"upi_id,omitempty"`
	BankName      string `json:"bank_name,omitempty" yaml:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty" yaml:"account_number,omitempty"`
	IFSCCode      string `json:"ifsc_code,omitempty" yaml:"ifsc_code,omitempty"`
	IsActive      bool   `json:"is_active" yaml:"is_active"`
}

func (p PaymentSettings) ItemID() int { return p.ID }
