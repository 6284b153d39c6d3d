// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the distributed variant of the rate limiter: a fixed
// window counter kept in Redis, so every replica behind a load balancer shares
// one budget per identity.
//
// Each window is a single key incremented atomically by a Lua script that also
// arms the key's expiry on the first hit. When the backend is unreachable the
// limiter fails open (the request proceeds and a warning is logged), so a Redis
// outage degrades abuse control rather than availability.
package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// WindowCounter increments the hit counter for key within a fixed window and
// reports the new count and the time left until the window resets.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

var incrWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisCounter is a WindowCounter backed by a go-redis client.
type RedisCounter struct {
	Client redis.Scripter
	Prefix string
}

// NewRedisClient opens a client for addr. The connection is established lazily.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), nil
}

// NewRedisCounter wraps client with the "ratelimit:" key prefix.
func NewRedisCounter(client redis.Scripter) *RedisCounter {
	return &RedisCounter{Client: client, Prefix: "ratelimit:"}
}

// Incr implements WindowCounter.
func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	ms := window.Milliseconds()
	if ms <= 0 {
		ms = 1000
	}
	res, err := incrWindowScript.Run(ctx, r.Client, []string{r.Prefix + key}, ms).Result()
	if err != nil {
		return 0, 0, err
	}
	vals, ok := res.([]any)
	if !ok || len(vals) < 2 {
		return 0, 0, errors.New("unexpected redis rate limit response")
	}
	n, ok := vals[0].(int64)
	if !ok {
		return 0, 0, errors.New("invalid redis counter response")
	}
	ttl, _ := vals[1].(int64)
	if ttl < 0 {
		ttl = 0
	}
	return n, time.Duration(ttl) * time.Millisecond, nil
}

// WindowLimiter admits at most limit requests per key in each fixed window.
type WindowLimiter struct {
	counter WindowCounter
	limit   int
	window  time.Duration
	keyFn   keyFunc
	timeout time.Duration
}

// NewWindowLimiter builds a limiter over counter. limit <= 0 is coerced to 1 and
// a non-positive window to one second.
func NewWindowLimiter(counter WindowCounter, limit int, window time.Duration, keyFn keyFunc) *WindowLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &WindowLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		timeout: 50 * time.Millisecond,
	}
}

// Handler returns the Gin middleware. Rejections carry the same 429 body as
// RateLimiter and a Retry-After rounded up to whole seconds.
func (wl *WindowLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wl.timeout)
		n, ttl, err := wl.counter.Incr(ctx, wl.keyFn(c), wl.window)
		cancel()
		if err != nil {
			rateLimitErrors.Inc()
			LoggerFrom(c).Warn().Err(err).Msg("rate limiter backend unavailable")
			c.Next()
			return
		}
		if n <= int64(wl.limit) {
			c.Next()
			return
		}
		rejectTooMany(c, retryAfterSeconds(ttl))
	}
}
