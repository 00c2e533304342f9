package resilience

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket.
type RateLimiter struct {
	rate  float64
	burst float64
	now   func() time.Time

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter refills rate tokens per second up to burst.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	return newRateLimiter(rate, burst, time.Now)
}

func newRateLimiter(rate float64, burst int, now func() time.Time) *RateLimiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = max(int(rate), 1)
	}
	return &RateLimiter{rate: rate, burst: float64(burst), now: now, tokens: float64(burst), last: now()}
}

// Allow takes a token if one is available.
func (l *RateLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

func (l *RateLimiter) refill() {
	now := l.now()
	l.tokens = min(l.burst, l.tokens+now.Sub(l.last).Seconds()*l.rate)
	l.last = now
}

// full reports whether the bucket has refilled completely. Callers hold mu.
func (l *RateLimiter) full() bool {
	l.refill()
	return l.tokens >= l.burst
}

// KeyedLimiter keeps one token bucket per key, such as a client IP.
type KeyedLimiter struct {
	rate  float64
	burst int
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*RateLimiter
}

// NewKeyedLimiter allows perMinute requests per key, with bursts of burst.
func NewKeyedLimiter(perMinute, burst int) *KeyedLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	if burst <= 0 {
		burst = perMinute
	}
	return &KeyedLimiter{
		rate:    float64(perMinute) / 60,
		burst:   burst,
		now:     time.Now,
		buckets: make(map[string]*RateLimiter),
	}
}

// Allow takes a token from key's bucket.
func (k *KeyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	b, ok := k.buckets[key]
	if !ok {
		b = newRateLimiter(k.rate, k.burst, k.now)
		k.buckets[key] = b
	}
	k.mu.Unlock()
	return b.Allow()
}

// Sweep drops buckets that have refilled, so idle keys do not accumulate.
// It returns the number of buckets removed.
func (k *KeyedLimiter) Sweep() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	removed := 0
	for key, b := range k.buckets {
		b.mu.Lock()
		idle := b.full()
		b.mu.Unlock()
		if idle {
			delete(k.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}
