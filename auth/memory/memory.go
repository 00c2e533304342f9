// Package memory is an in-process auth.Provider. Accounts live only as
// long as the process; it backs local development and tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kbukum/signup/auth"
)

// Error is returned when the store refuses a signup.
type Error struct {
	reason string
	msg    string
}

func (e *Error) Error() string  { return "memory: " + e.msg }
func (e *Error) Reason() string { return e.reason }

// Provider stores accounts in a map keyed by lower-cased email.
type Provider struct {
	mu          sync.Mutex
	accounts    map[string]*auth.SignUpResult
	minPassword int
	now         func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithMinPasswordLength rejects passwords with fewer characters as weak.
// Zero disables the check.
func WithMinPasswordLength(n int) Option {
	return func(p *Provider) { p.minPassword = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// New creates an empty Provider.
func New(opts ...Option) *Provider {
	p := &Provider{accounts: make(map[string]*auth.SignUpResult), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SignUp implements auth.Provider.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*auth.SignUpResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.minPassword > 0 && utf8.RuneCountInString(password) < p.minPassword {
		return nil, &Error{reason: auth.ReasonWeakPassword, msg: fmt.Sprintf("password shorter than %d", p.minPassword)}
	}

	key := strings.ToLower(email)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.accounts[key]; exists {
		return nil, &Error{reason: auth.ReasonEmailTaken, msg: "user already registered"}
	}
	res := &auth.SignUpResult{
		UserID:             uuid.NewString(),
		Email:              email,
		ConfirmationSentAt: p.now(),
		NeedsConfirmation:  true,
	}
	p.accounts[key] = res
	copied := *res
	return &copied, nil
}

// Lookup returns the account registered for email.
func (p *Provider) Lookup(email string) (*auth.SignUpResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	res, ok := p.accounts[strings.ToLower(email)]
	if !ok {
		return nil, false
	}
	copied := *res
	return &copied, true
}

// Len returns the number of accounts.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.accounts)
}
