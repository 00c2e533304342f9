package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/signup/errors"
	"github.com/kbukum/signup/resilience"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	// KeyFunc picks the bucket. Defaults to the client IP.
	KeyFunc func(*gin.Context) string
}

// RateLimit is a per-key token bucket for gin routes.
type RateLimit struct {
	limiter *resilience.KeyedLimiter
	keyFunc func(*gin.Context) string
}

// NewRateLimit creates the limiter. Call Sweep periodically to forget idle
// keys.
func NewRateLimit(cfg RateLimitConfig) *RateLimit {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}
	return &RateLimit{
		limiter: resilience.NewKeyedLimiter(cfg.RequestsPerMinute, cfg.Burst),
		keyFunc: cfg.KeyFunc,
	}
}

// Handler answers 429 RATE_LIMITED once a key's bucket is empty.
func (rl *RateLimit) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter.Allow(rl.keyFunc(c)) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperrors.RateLimited().ToResponse())
			return
		}
		c.Next()
	}
}

// Sweep drops idle buckets and returns how many were removed.
func (rl *RateLimit) Sweep() int { return rl.limiter.Sweep() }

// IPBasedKey keys by client IP.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}
