package ratelimit

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// AuthLimitPrefix is the key prefix for auth endpoint counters
const AuthLimitPrefix = "ratelimit:auth:"

// Limiter defines the interface for request rate limiting.
// Using an interface enables testing with fakes.
type Limiter interface {
	// Allow reports whether the caller identified by key may proceed.
	Allow(ctx context.Context, key string) bool
}

// RedisLimiter implements Limiter with fixed counting windows in Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter creates a Limiter allowing limit requests per window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) Limiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func limitKey(key string) string {
	return AuthLimitPrefix + key
}

// Allow increments the caller's window counter and compares it to the limit.
// Fails open when Redis is unreachable.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	k := limitKey(key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		log.Printf("[RateLimit] Incr FAILED: key=%s err=%v", key, err)
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			log.Printf("[RateLimit] Expire FAILED: key=%s err=%v", key, err)
		}
	}

	return count <= int64(l.limit)
}
