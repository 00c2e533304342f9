package memory

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/signup/auth"
)

func TestSignUpStoresAccount(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := New(WithClock(func() time.Time { return fixed }))

	res, err := p.SignUp(context.Background(), "a@b.co", "p1")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if res.UserID == "" || res.Email != "a@b.co" || !res.NeedsConfirmation {
		t.Errorf("unexpected result %+v", res)
	}
	if !res.ConfirmationSentAt.Equal(fixed) {
		t.Errorf("expected clock time, got %v", res.ConfirmationSentAt)
	}
	if got, ok := p.Lookup("A@B.CO"); !ok || got.UserID != res.UserID {
		t.Errorf("lookup should be case insensitive, got %v %v", got, ok)
	}
}

func TestSignUpDuplicate(t *testing.T) {
	p := New()
	ctx := context.Background()
	if _, err := p.SignUp(ctx, "a@b.co", "p1"); err != nil {
		t.Fatal(err)
	}
	_, err := p.SignUp(ctx, "A@b.co", "p2")
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if auth.ReasonOf(err) != auth.ReasonEmailTaken {
		t.Errorf("expected email_taken, got %q", auth.ReasonOf(err))
	}
	if p.Len() != 1 {
		t.Errorf("expected 1 account, got %d", p.Len())
	}
}

func TestSignUpWeakPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		weak     bool
	}{
		{"too short", "123", true},
		{"exact length", "123456", false},
		{"multibyte counted as characters", "ñáéí", true},
		{"six multibyte characters", "ñáéíóú", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := New(WithMinPasswordLength(6))
			_, err := p.SignUp(context.Background(), "a@b.co", tc.password)
			if got := auth.ReasonOf(err) == auth.ReasonWeakPassword; got != tc.weak {
				t.Errorf("weak = %v, want %v (err %v)", got, tc.weak, err)
			}
		})
	}
}

func TestSignUpCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().SignUp(ctx, "a@b.co", "p1"); err == nil {
		t.Error("expected context error")
	}
}
