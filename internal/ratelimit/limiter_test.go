package ratelimit_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"corkboard/internal/ratelimit"
)

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	client.FlushDB(ctx)

	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx := context.Background()
	client.FlushDB(ctx)
	client.Close()
}

func TestRedisLimiter_Allow(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	limiter := ratelimit.NewRedisLimiter(client, 3, time.Minute)

	for i := 1; i <= 3; i++ {
		if !limiter.Allow(ctx, "1.2.3.4") {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	if limiter.Allow(ctx, "1.2.3.4") {
		t.Error("request over the limit should be denied")
	}

	// Another caller has its own budget
	if !limiter.Allow(ctx, "5.6.7.8") {
		t.Error("different key should not share the counter")
	}
}

func TestRedisLimiter_WindowReset(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	limiter := ratelimit.NewRedisLimiter(client, 1, time.Second)

	if !limiter.Allow(ctx, "1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow(ctx, "1.2.3.4") {
		t.Error("second request in the window should be denied")
	}

	// Counter expires with the window
	time.Sleep(1100 * time.Millisecond)
	if !limiter.Allow(ctx, "1.2.3.4") {
		t.Error("request after the window should be allowed")
	}
}

func TestRedisLimiter_FailOpen(t *testing.T) {
	// Point at a port nothing listens on. Requests must still go through.
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	limiter := ratelimit.NewRedisLimiter(client, 1, time.Minute)

	if !limiter.Allow(context.Background(), "1.2.3.4") {
		t.Error("limiter should fail open when Redis is down")
	}
}
