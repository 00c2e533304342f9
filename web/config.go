package web

import (
	"fmt"
	"time"
)

// Config holds the browser session settings of the registration pages.
type Config struct {
	// TTL is how long an idle session is kept.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
	// SweepInterval is how often expired sessions are evicted.
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
	CookieName    string        `yaml:"cookie_name" mapstructure:"cookie_name"`
	CookieSecure  bool          `yaml:"cookie_secure" mapstructure:"cookie_secure"`
	// NegotiateLanguage picks the message language from Accept-Language.
	// When false every session uses Spanish.
	NegotiateLanguage bool `yaml:"negotiate_language" mapstructure:"negotiate_language"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Minute
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.CookieName == "" {
		c.CookieName = "signup_session"
	}
}

// Validate checks durations.
func (c *Config) Validate() error {
	if c.TTL < time.Second {
		return fmt.Errorf("sessions.ttl must be at least 1s (got: %s)", c.TTL)
	}
	if c.SweepInterval > c.TTL {
		return fmt.Errorf("sessions.sweep_interval (%s) must not exceed sessions.ttl (%s)", c.SweepInterval, c.TTL)
	}
	return nil
}
