package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// InMemoryRateLimiter is a sliding-window counter per key. Keys are scoped
// strings ("api:1.2.3.4", "login:1.2.3.4") so one client's budget on the
// general API does not shield brute-force attempts against login.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
}

func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	r := &InMemoryRateLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
	}
	go r.cleanup()
	return r
}

func (r *InMemoryRateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	hits := prune(r.windows[key], now.Add(-r.window))
	if len(hits) >= r.limit {
		r.windows[key] = hits
		return false
	}
	r.windows[key] = append(hits, now)
	return true
}

// prune drops timestamps at or before cutoff, reusing the backing array.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (r *InMemoryRateLimiter) cleanup() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		r.mu.Lock()
		cutoff := time.Now().Add(-r.window)
		for k, hits := range r.windows {
			kept := prune(hits, cutoff)
			if len(kept) == 0 {
				delete(r.windows, k)
				continue
			}
			r.windows[k] = kept
		}
		r.mu.Unlock()
	}
}

// RateLimit limits by client IP under the given scope. Routes sharing a
// limiter but using different scopes keep separate budgets.
func RateLimit(scope string, limiter *InMemoryRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(scope + ":" + c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
