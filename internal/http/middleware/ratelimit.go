// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the in-process token-bucket limiter: one bucket per
// subject (or client IP), built on golang.org/x/time/rate, with idle buckets
// evicted opportunistically. Replicated deployments use the redis-backed
// WindowLimiter in ratelimit_redis.go instead. Neither is an authorization
// mechanism.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	bucketIdleTTL = 10 * time.Minute
	sweepEvery    = 5000 // lookups between idle-bucket sweeps
)

// keyFunc selects the identity used to key a rate-limit bucket, e.g.
// "user:<id>" or "ip:<addr>".
type keyFunc func(*gin.Context) string

// KeyByUserOrIP keys by the subject set by Identity and falls back to the
// client IP. Prefixes keep the two namespaces apart.
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if v, ok := c.Get(userIDKey); ok {
			if s, ok := v.(string); ok && s != "" {
				return "user:" + s
			}
		}
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-key token-bucket limiter. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	lookups int
}

// NewRateLimiter returns a limiter refilling rps tokens per second up to
// burst (coerced to at least 1), keyed by keyFn.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		ttl:     bucketIdleTTL,
	}
}

// limiterFor returns the bucket for key, creating it when absent. Idle
// buckets are swept before the lookup, so a stale bucket for key itself is
// replaced rather than refreshed.
func (rl *RateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= sweepEvery {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.ttl {
				delete(rl.buckets, k)
			}
		}
		rl.lookups = 0
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	return lim
}

// Handler enforces the limit. Rejections get a 429 with Retry-After set to
// the whole seconds until the next token.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := rl.now()
		lim := rl.limiterFor(rl.keyFn(c), now)

		r := lim.ReserveN(now, 1)
		if r.OK() {
			delay := r.DelayFrom(now)
			if delay == 0 {
				c.Next()
				return
			}
			r.CancelAt(now)
			rejectTooMany(c, retryAfterSeconds(delay))
			return
		}
		rejectTooMany(c, "1")
	}
}

func retryAfterSeconds(d time.Duration) string {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}

// rejectTooMany aborts with the shared 429 body.
func rejectTooMany(c *gin.Context, retryAfter string) {
	rateLimitedTotal.Inc()
	c.Header("Retry-After", retryAfter)
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "too_many_requests",
		"message":    "rate limit exceeded",
	})
}
