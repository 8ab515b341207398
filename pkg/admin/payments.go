package admin

import (
	"context"
	"errors"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// ErrNoSettings is returned when the backend has no payment settings record.
var ErrNoSettings = errors.New("admin: payment settings are not configured")

// PaymentSettingsScreen edits the single gateway configuration record.
type PaymentSettingsScreen struct {
	*backoffice.Controller[billing.PaymentSettings, int]
}

// NewPaymentSettingsScreen wires the settings controller over a singleton
// remote.
func NewPaymentSettingsScreen(remote backoffice.Remote[billing.PaymentSettings, int], deps Deps) (*PaymentSettingsScreen, error) {
	deps = deps.normalize()
	ctrl, err := backoffice.NewController(controllerOptions(deps, "payment settings", "payment settings", remote, PaymentSettingsSchema()))
	if err != nil {
		return nil, err
	}
	return &PaymentSettingsScreen{Controller: ctrl}, nil
}

// Current loads and returns the settings record.
func (s *PaymentSettingsScreen) Current(ctx context.Context) (billing.PaymentSettings, error) {
	if err := s.Load(ctx, nil); err != nil {
		return billing.PaymentSettings{}, err
	}
	items := s.Items()
	if len(items) == 0 {
		return billing.PaymentSettings{}, ErrNoSettings
	}
	return items[0], nil
}

// Edit opens the settings form. The masked secrets are blanked so an untouched
// secret is left out of the update.
func (s *PaymentSettingsScreen) Edit(ctx context.Context) error {
	current, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if err := s.OpenEdit(current); err != nil {
		return err
	}
	return s.blankSecrets()
}

// Save submits the open form.
func (s *PaymentSettingsScreen) Save(ctx context.Context) (billing.PaymentSettings, error) {
	return s.Submit(ctx)
}

func (s *PaymentSettingsScreen) blankSecrets() error {
	for _, field := range []string{"secret_key", "webhook_secret"} {
		if err := s.SetField(field, ""); err != nil {
			return err
		}
	}
	return nil
}

// Entry exposes the screen to the CLI.
func (s *PaymentSettingsScreen) Entry() Entry {
	e := newEntry("payments", s.Controller, parseIntID, s.table, false)
	e.edited = s.blankSecrets
	return e
}

func (s *PaymentSettingsScreen) table(items []billing.PaymentSettings) Table {
	t := Table{Columns: []string{"ID", "GATEWAY", "MODE", "CURRENCY", "PUBLIC KEY", "SECRET", "STATUS"}}
	for _, p := range items {
		status := "inactive"
		if p.IsActive {
			status = "active"
		}
		secret := "not set"
		if p.SecretKey != "" {
			secret = "set"
		}
		t.Rows = append(t.Rows, []string{itoa(p.ID), p.Gateway, p.Mode, p.Currency, cellText(p.PublicKey), secret, status})
		t.Status = append(t.Status, status)
	}
	return t
}
