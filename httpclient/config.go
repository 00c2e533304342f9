package httpclient

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/signup/resilience"
	"github.com/kbukum/signup/security"
)

const defaultTimeout = 30 * time.Second

// Config configures a Client.
type Config struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string
	// Timeout bounds each attempt. Defaults to 30s.
	Timeout time.Duration
	// Auth is applied to every request unless the request sets its own.
	Auth *AuthConfig
	// Headers are sent with every request.
	Headers map[string]string
	// UserAgent overrides Go's default User-Agent.
	UserAgent string

	// Retry enables retries of retryable failures. Nil disables them.
	Retry *resilience.RetryConfig
	// CircuitBreaker enables a breaker around each attempt. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig
	// MaxConcurrent bounds in-flight requests. Zero means unbounded.
	MaxConcurrent int
	// TLS customizes certificate verification. Nil uses the system roots.
	TLS *security.TLSConfig
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the base URL and timeout.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("httpclient: invalid base url %q", c.BaseURL)
		}
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("httpclient: max concurrent must not be negative")
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	return nil
}

// DefaultRetryConfig retries connection failures, 429 and 5xx responses.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}

// DefaultCircuitBreakerConfig counts only failures that indicate the
// remote side is unhealthy.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	cfg.IsFailure = IsRetryable
	return &cfg
}
