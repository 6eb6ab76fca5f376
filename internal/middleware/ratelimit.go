package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter enforces a per-client sliding window over recent request
// times. State is in-memory; restarting the process resets all windows.
type RateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	limit     int
	hits      map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute requests per
// client per sliding minute
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		window: time.Minute,
		limit:  requestsPerMinute,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether key may proceed. When rejected it also returns how
// long until the oldest tracked request leaves the window.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)
	rl.sweep(now, cutoff)

	// A zero or negative budget admits nothing.
	if rl.limit <= 0 {
		return false, rl.window
	}

	var recent []time.Time
	for _, t := range rl.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.hits[key] = recent
		return false, recent[0].Sub(cutoff)
	}

	rl.hits[key] = append(recent, now)
	return true, 0
}

// sweep drops clients whose tracked requests all left the window. Runs at
// most once per window to keep Allow cheap.
func (rl *RateLimiter) sweep(now, cutoff time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now

	for key, times := range rl.hits {
		stale := true
		for _, t := range times {
			if t.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(rl.hits, key)
		}
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After hint
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retry := rl.Allow(c.ClientIP())
		if !ok {
			seconds := int(retry.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": fmt.Sprintf("rate limit exceeded: %d requests per minute", rl.limit),
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
