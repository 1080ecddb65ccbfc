package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every server instance.
type RedisLimiter struct {
	client redis.Cmdable
	cfg    Config
}

func NewRedisLimiter(client redis.Cmdable, cfg Config) *RedisLimiter {
	return &RedisLimiter{client: client, cfg: cfg}
}

// Allow increments the window counter for key. The window starts with the
// first event and expires after cfg.Window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.cfg.KeyPrefix + key

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.cfg.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	limit := int64(l.cfg.Requests)
	if count <= limit {
		return Decision{Allowed: true, Remaining: int(limit - count)}, nil
	}

	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl < 0 {
		// counter lost its expiry; restore it so the key cannot block forever
		_ = l.client.Expire(ctx, k, l.cfg.Window).Err()
		ttl = l.cfg.Window
	}
	return Decision{Allowed: false, RetryAfter: ttl.Round(time.Second)}, nil
}
