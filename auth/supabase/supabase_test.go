package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/signup/auth"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/resilience"
)

const anonKey = "sb_publishable_test"

func newTestClient(t *testing.T, srv *httptest.Server, mutate ...func(*Config)) *Client {
	t.Helper()
	cfg := Config{URL: srv.URL, Key: anonKey}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg, WithLogger(logger.NewNop()), WithRetryBackoff(time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func signingKey(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":  "supabase",
		"role": role,
	}).SignedString([]byte("not-the-real-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestSignUpSendsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/v1/signup" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("apikey") != anonKey {
			t.Errorf("missing apikey header")
		}
		if r.Header.Get("Authorization") != "Bearer "+anonKey {
			t.Errorf("missing bearer header, got %q", r.Header.Get("Authorization"))
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "signup/") {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		if got := r.URL.Query().Get("redirect_to"); got != "https://app.example.com/login" {
			t.Errorf("unexpected redirect_to %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["email"] != "test@example.com" || body["password"] != "secret123" {
			t.Errorf("unexpected body %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "11111111-2222-3333-4444-555555555555",
			"email": "test@example.com",
			"confirmation_sent_at": "2026-10-18T09:00:00Z",
			"email_confirmed_at": null
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *Config) { cfg.EmailRedirectTo = "https://app.example.com/login" })
	res, err := c.SignUp(context.Background(), "test@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if res.UserID != "11111111-2222-3333-4444-555555555555" || res.Email != "test@example.com" {
		t.Errorf("unexpected result %+v", res)
	}
	if !res.NeedsConfirmation {
		t.Error("expected confirmation to be pending")
	}
	if res.ConfirmationSentAt.IsZero() {
		t.Error("expected confirmation_sent_at to be decoded")
	}
}

func TestSignUpSessionShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"access_token": "token",
			"user": {"id": "u-2", "email": "auto@example.com", "email_confirmed_at": "2026-10-18T09:00:00Z"}
		}`))
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv).SignUp(context.Background(), "auto@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if res.UserID != "u-2" || res.NeedsConfirmation {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSignUpRejections(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
		reason string
	}{
		{"user exists", 422, `{"code":"user_already_exists","msg":"User already registered"}`, "user_already_exists", auth.ReasonEmailTaken},
		{"legacy numeric code", 400, `{"code":400,"msg":"User already registered"}`, "", auth.ReasonEmailTaken},
		{"weak password", 422, `{"error_code":"weak_password","msg":"Password should be at least 6 characters."}`, "weak_password", auth.ReasonWeakPassword},
		{"signups disabled", 422, `{"error_code":"signup_disabled","msg":"Signups not allowed for this instance"}`, "signup_disabled", auth.ReasonSignupDisabled},
		{"oauth style", 400, `{"error":"invalid_request","error_description":"bad"}`, "invalid_request", auth.ReasonUnknown},
		{"plain text", 400, `nope`, "", auth.ReasonUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv).SignUp(context.Background(), "test@example.com", "secret123")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != tc.status || apiErr.Code != tc.code {
				t.Errorf("unexpected api error %+v", apiErr)
			}
			if got := auth.ReasonOf(err); got != tc.reason {
				t.Errorf("ReasonOf = %q, want %q", got, tc.reason)
			}
		})
	}
}

func TestSignUpRetriesOnlyUndeliveredRequests(t *testing.T) {
	tests := []struct {
		name      string
		first     int
		wantCalls int32
		wantErr   bool
	}{
		{"rate limited is retried", http.StatusTooManyRequests, 2, false},
		{"bad gateway is not retried", http.StatusBadGateway, 1, true},
		{"unavailable is not retried", http.StatusServiceUnavailable, 1, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if calls.Add(1) == 1 {
					w.WriteHeader(tc.first)
					return
				}
				_, _ = w.Write([]byte(`{"id":"u-3","email":"test@example.com"}`))
			}))
			defer srv.Close()

			res, err := newTestClient(t, srv).SignUp(context.Background(), "test@example.com", "secret123")
			if (err != nil) != tc.wantErr {
				t.Fatalf("SignUp error = %v, wantErr %v", err, tc.wantErr)
			}
			if calls.Load() != tc.wantCalls {
				t.Errorf("expected %d calls, got %d", tc.wantCalls, calls.Load())
			}
			if !tc.wantErr && res.UserID != "u-3" {
				t.Errorf("unexpected result %+v", res)
			}
		})
	}
}

func TestSignUpDoesNotResendAfterSlowCreation(t *testing.T) {
	var posts atomic.Int32
	var created atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		if !created.CompareAndSwap(false, true) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error_code":"user_already_exists","msg":"User already registered"}`))
			return
		}
		// Account exists; the confirmation email is still being sent.
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"id":"u-4","email":"test@example.com"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *Config) { cfg.Timeout = 100 * time.Millisecond })
	_, err := c.SignUp(context.Background(), "test@example.com", "secret123")
	if err == nil {
		t.Fatal("expected the timeout to surface")
	}
	if posts.Load() != 1 {
		t.Errorf("a delivered signup must not be sent again, got %d posts", posts.Load())
	}
	if auth.ReasonOf(err) == auth.ReasonEmailTaken {
		t.Errorf("timeout must not read as a taken email: %v", err)
	}
}

func TestSignUpDoesNotRetryRefusals(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error_code":"email_exists","msg":"taken"}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv).SignUp(context.Background(), "test@example.com", "secret123"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("refusals must not be retried, got %d calls", calls.Load())
	}
}

func TestHealthRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"name":"GoTrue"}`))
	}))
	defer srv.Close()

	if err := newTestClient(t, srv).Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected the health check to be retried, got %d calls", calls.Load())
	}
}

func TestSignUpOpensBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *Config) {
		cfg.MaxAttempts = 1
		cfg.CircuitBreaker.MaxFailures = 2
		cfg.CircuitBreaker.Timeout = time.Hour
	})
	for range 2 {
		_, _ = c.SignUp(context.Background(), "test@example.com", "secret123")
	}
	if c.BreakerState() != resilience.StateOpen {
		t.Fatalf("expected open breaker, got %s", c.BreakerState())
	}
	_, err := c.SignUp(context.Background(), "test@example.com", "secret123")
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestSignUpRefusesMalformedEmailLocally(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls.Add(1) }))
	defer srv.Close()

	if _, err := newTestClient(t, srv).SignUp(context.Background(), "not-an-email", "secret123"); err == nil {
		t.Fatal("expected validation error")
	}
	if calls.Load() != 0 {
		t.Error("malformed requests must not reach the API")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"name":"GoTrue"}`))
	}))
	defer srv.Close()

	if err := newTestClient(t, srv).Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}

func TestKeyRole(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"publishable", "sb_publishable_abc", RoleAnon},
		{"secret", "sb_secret_abc", RoleService},
		{"anon jwt", signingKey(t, "anon"), RoleAnon},
		{"service jwt", signingKey(t, "service_role"), RoleService},
		{"garbage", "not-a-key", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KeyRole(tc.key); got != tc.want {
				t.Errorf("KeyRole = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{URL: "https://x.supabase.co", Key: anonKey}, ""},
		{"missing url", Config{Key: anonKey}, "SUPABASE_URL"},
		{"relative url", Config{URL: "x.supabase.co", Key: anonKey}, "not absolute"},
		{"missing key", Config{URL: "https://x.supabase.co"}, "SUPABASE_KEY"},
		{"service key", Config{URL: "https://x.supabase.co", Key: signingKey(t, "service_role")}, "service_role"},
		{"bad redirect", Config{URL: "https://x.supabase.co", Key: anonKey, EmailRedirectTo: "/login"}, "email_redirect_to"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
