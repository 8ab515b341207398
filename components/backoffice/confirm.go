package backoffice

import (
	"context"
	"errors"
)

// ErrDeclined is returned when the operator refuses a confirmation step.
var ErrDeclined = errors.New("backoffice: operation declined")

// Prompt describes a destructive step awaiting confirmation.
type Prompt struct {
	Title    string
	Message  string
	Resource string
	ItemID   string
	Action   string
}

// Confirmer gates destructive calls. Returning false means no request is sent.
type Confirmer interface {
	Confirm(ctx context.Context, prompt Prompt) (bool, error)
}

// ConfirmFunc adapts a function into a Confirmer.
type ConfirmFunc func(ctx context.Context, prompt Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt (scripted/--yes usage).
func AlwaysConfirm() Confirmer {
	return ConfirmFunc(func(context.Context, Prompt) (bool, error) { return true, nil })
}

// NeverConfirm declines every prompt. It is the default so destructive calls
// are never issued without an explicit confirmer.
func NeverConfirm() Confirmer {
	return ConfirmFunc(func(context.Context, Prompt) (bool, error) { return false, nil })
}

func normalizeConfirmer(c Confirmer) Confirmer {
	if c == nil {
		return NeverConfirm()
	}
	return c
}
