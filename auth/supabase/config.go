package supabase

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/signup/resilience"
	"github.com/kbukum/signup/security"
)

// Config holds the Supabase project settings. URL and Key are usually
// supplied through SUPABASE_URL and SUPABASE_KEY.
type Config struct {
	URL string `yaml:"url" mapstructure:"url" env:"SUPABASE_URL"`
	Key string `yaml:"key" mapstructure:"key" env:"SUPABASE_KEY"`
	// EmailRedirectTo is where the activation link sends the user.
	EmailRedirectTo string `yaml:"email_redirect_to" mapstructure:"email_redirect_to" env:"SUPABASE_EMAIL_REDIRECT_TO"`

	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxAttempts   int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	MaxConcurrent int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`

	CircuitBreaker resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// TLS is for self-hosted projects behind a private CA.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 2
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 32
	}
	if c.CircuitBreaker.MaxFailures <= 0 {
		c.CircuitBreaker.MaxFailures = 5
	}
	if c.CircuitBreaker.Timeout <= 0 {
		c.CircuitBreaker.Timeout = 30 * time.Second
	}
}

// Validate checks the URL and refuses privileged keys.
func (c *Config) Validate() error {
	var errs []error
	if c.URL == "" {
		errs = append(errs, errors.New("url is required (SUPABASE_URL)"))
	} else if u, err := url.Parse(c.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("url %q is not absolute", c.URL))
	}
	if c.Key == "" {
		errs = append(errs, errors.New("key is required (SUPABASE_KEY)"))
	} else if err := CheckKey(c.Key); err != nil {
		errs = append(errs, err)
	}
	if c.EmailRedirectTo != "" {
		if u, err := url.Parse(c.EmailRedirectTo); err != nil || u.Scheme == "" {
			errs = append(errs, fmt.Errorf("email_redirect_to %q is not absolute", c.EmailRedirectTo))
		}
	}
	if err := c.TLS.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("supabase: invalid config: %w", errors.Join(errs...))
	}
	return nil
}
