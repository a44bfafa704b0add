package httputil

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// maxTrackedClients bounds the number of client buckets kept in memory
const maxTrackedClients = 4096

// RateLimitConfig defines rate limiting configuration
type RateLimitConfig struct {
	// RequestsPerWindow is the max requests allowed in the time window
	RequestsPerWindow int `yaml:"requests_per_window"`
	// WindowDuration is the time window for rate limiting
	WindowDuration time.Duration `yaml:"window"`
	// BurstSize allows temporary bursts above the rate
	BurstSize int `yaml:"burst"`
}

// Enabled reports whether the configuration limits anything
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerWindow > 0 && c.WindowDuration > 0
}

// RateLimiter is a token bucket per key. Idle buckets expire after two windows.
type RateLimiter struct {
	config  RateLimitConfig
	buckets *expirable.LRU[string, *bucket]
	now     func() time.Time
	mu      sync.Mutex
}

type bucket struct {
	tokens     float64
	lastUpdate time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		config:  config,
		buckets: expirable.NewLRU[string, *bucket](maxTrackedClients, nil, 2*config.WindowDuration),
		now:     time.Now,
	}
}

func (rl *RateLimiter) capacity() float64 {
	return float64(rl.config.RequestsPerWindow + rl.config.BurstSize)
}

// Allow takes a token for key and returns the tokens left
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: rl.capacity(), lastUpdate: now}
	} else {
		elapsed := now.Sub(b.lastUpdate)
		b.tokens += elapsed.Seconds() * float64(rl.config.RequestsPerWindow) / rl.config.WindowDuration.Seconds()
		if b.tokens > rl.capacity() {
			b.tokens = rl.capacity()
		}
		b.lastUpdate = now
	}
	rl.buckets.Add(key, b)

	if b.tokens < 1 {
		return false, 0
	}
	b.tokens--
	return true, int(b.tokens)
}

// RateLimitMiddleware rejects clients that exceed the limiter with 429
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining := rl.Allow(ClientIP(r))
			reset := rl.now().Add(rl.config.WindowDuration).Unix()

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset))

			if !allowed {
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", rl.config.WindowDuration.Seconds()))
				WriteErrorMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the originating client address, preferring proxy headers
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
