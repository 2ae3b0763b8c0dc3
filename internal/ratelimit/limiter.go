// Package ratelimit implements the fixed-window limiter applied to API keys.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter is the subset of *redis.Client the limiter uses.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, subject string, limit int, window time.Duration) Decision
}

type redisLimiter struct {
	counter Counter
	prefix  string
	now     func() time.Time
}

func NewRedisLimiter(counter Counter) Limiter {
	return &redisLimiter{counter: counter, prefix: "ratelimit:", now: time.Now}
}

// Allow counts one hit for subject in the current window. Redis failures
// let the request through.
func (l *redisLimiter) Allow(ctx context.Context, subject string, limit int, window time.Duration) Decision {
	if limit <= 0 || window <= 0 {
		return Decision{Allowed: true, Limit: limit}
	}

	now := l.now()
	start := now.Truncate(window)
	key := fmt.Sprintf("%s%s:%d", l.prefix, subject, start.Unix())

	count, err := l.counter.Incr(ctx, key).Result()
	if err != nil {
		slog.WarnContext(ctx, "rate limiter unavailable, allowing request", "error", err, "key", key)
		return Decision{Allowed: true, Limit: limit, Remaining: limit}
	}
	if count == 1 {
		if err := l.counter.Expire(ctx, key, window).Err(); err != nil {
			slog.WarnContext(ctx, "failed to set rate limit window expiry", "error", err, "key", key)
		}
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	d := Decision{Allowed: int(count) <= limit, Limit: limit, Remaining: remaining}
	if !d.Allowed {
		d.RetryAfter = start.Add(window).Sub(now)
	}
	return d
}
