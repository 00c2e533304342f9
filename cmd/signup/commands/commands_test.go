package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/signup/auth"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/registration"
)

func memoryConfig() *Config {
	cfg := &Config{}
	cfg.Auth.Provider = auth.ProviderMemory
	cfg.Registration.RedirectDelay = time.Millisecond
	cfg.Logging.Level = "error"
	return cfg
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Name != "signup" {
		t.Errorf("expected default name signup, got %q", cfg.Name)
	}
	if cfg.Registration.RedirectDelay != 3*time.Second || cfg.Registration.LoginRoute != "/login" {
		t.Errorf("unexpected registration defaults %+v", cfg.Registration)
	}
	if cfg.Auth.Provider != auth.ProviderSupabase {
		t.Errorf("expected supabase provider by default, got %q", cfg.Auth.Provider)
	}
	if cfg.Sessions.TTL != 30*time.Minute {
		t.Errorf("expected 30m session ttl, got %s", cfg.Sessions.TTL)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory provider", func(*Config) {}, ""},
		{"supabase without url", func(c *Config) { c.Auth.Provider = auth.ProviderSupabase }, "supabase"},
		{"unknown policy", func(c *Config) { c.Registration.ProviderErrorPolicy = "panic" }, "registration"},
		{"unknown provider", func(c *Config) { c.Auth.Provider = "ldap" }, "auth"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := memoryConfig()
			tc.mutate(cfg)
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected %q error, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yml")
	yml := "name: signup\nregistration:\n  redirect_delay: 5s\n  provider_error_policy: ignore\nsessions:\n  ttl: 10m\n"
	if err := os.WriteFile(file, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SUPABASE_URL", "https://demo.supabase.co")
	t.Setenv("SUPABASE_KEY", "sb_publishable_test")

	configFile, envFile = file, filepath.Join(dir, "test.env")
	t.Cleanup(func() { configFile, envFile = "", "" })
	if err := os.WriteFile(envFile, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Registration.RedirectDelay != 5*time.Second || cfg.Registration.ProviderErrorPolicy != "ignore" {
		t.Errorf("registration section not loaded: %+v", cfg.Registration)
	}
	if cfg.Sessions.TTL != 10*time.Minute {
		t.Errorf("sessions.ttl not loaded: %s", cfg.Sessions.TTL)
	}
	if cfg.Supabase.URL != "https://demo.supabase.co" || cfg.Supabase.Key != "sb_publishable_test" {
		t.Errorf("supabase env not applied: %+v", cfg.Supabase)
	}
}

func TestRunSubmit(t *testing.T) {
	tests := []struct {
		name    string
		form    registration.Form
		wantErr error
	}{
		{"succeeds", registration.Form{Email: "ana@example.com", Password: "secret", ConfirmPassword: "secret"}, nil},
		{"mismatch fails", registration.Form{Email: "ana@example.com", Password: "secret", ConfirmPassword: "other"}, errRegistrationFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := runSubmit(context.Background(), memoryConfig(), tc.form)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNewServeAppComponents(t *testing.T) {
	app, err := newServeApp(memoryConfig())
	if err != nil {
		t.Fatalf("newServeApp: %v", err)
	}
	var names []string
	for _, c := range app.Components.All() {
		names = append(names, c.Name())
	}
	want := "telemetry sessions http-server sse"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("components = %q, want %q", got, want)
	}
}

func TestLogEvent(t *testing.T) {
	// must not panic on any kind
	fn := logEvent(logger.NewNop())
	st := registration.State{ErrorMessage: "x"}
	for _, e := range []registration.Event{
		{Kind: registration.EventStateChanged, State: &st},
		{Kind: registration.EventFocus, Field: "email"},
		{Kind: registration.EventClear, Field: "confirm_password"},
		{Kind: registration.EventRedirect, Target: "/login"},
	} {
		fn(e)
	}
}
