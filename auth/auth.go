package auth

import (
	"context"
	"errors"
	"time"
)

// SignUpResult describes the account a provider created.
type SignUpResult struct {
	UserID             string    `json:"user_id"`
	Email              string    `json:"email"`
	ConfirmationSentAt time.Time `json:"confirmation_sent_at,omitzero"`
	// NeedsConfirmation is true while the account waits for the user to
	// follow the activation link.
	NeedsConfirmation bool `json:"needs_confirmation"`
}

// Provider creates user accounts.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*SignUpResult, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, email, password string) (*SignUpResult, error)

// SignUp implements Provider.
func (f ProviderFunc) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	return f(ctx, email, password)
}

// Reasons a provider may give for refusing a signup. Providers translate
// their own error vocabulary into these.
const (
	ReasonUnknown        = ""
	ReasonEmailTaken     = "email_taken"
	ReasonWeakPassword   = "weak_password"
	ReasonRateLimited    = "rate_limited"
	ReasonSignupDisabled = "signup_disabled"
)

// Rejection is implemented by provider errors that carry a reason.
type Rejection interface {
	error
	Reason() string
}

// ReasonOf returns the reason carried anywhere in err's chain, or
// ReasonUnknown.
func ReasonOf(err error) string {
	var r Rejection
	if errors.As(err, &r) {
		return r.Reason()
	}
	return ReasonUnknown
}
