// Package ratelimit implements fixed-window request budgets per caller.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts requests with INCR and starts the window with EXPIRE on the first hit.
// When Redis is unreachable it degrades to an in-process MemoryLimiter.
type RedisLimiter struct {
	client   *redis.Client
	limit    int
	window   time.Duration
	fallback *MemoryLimiter
	logger   *zap.Logger
}

// NewRedisLimiter creates a limiter allowing limit requests per window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		limit:    limit,
		window:   window,
		fallback: NewMemoryLimiter(limit, window),
		logger:   logger,
	}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("rate_limit:%s", key)
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("redis rate limit unavailable, using memory fallback", zap.Error(err))
		return l.fallback.Allow(ctx, key)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}

// MemoryLimiter is a process-local fixed-window limiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]*counter
}

type counter struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter creates a limiter allowing limit requests per window.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*counter),
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.windows[key]
	if !ok || !now.Before(c.resetAt) {
		c = &counter{resetAt: now.Add(l.window)}
		l.windows[key] = c
	}
	c.count++
	return c.count <= l.limit, nil
}
