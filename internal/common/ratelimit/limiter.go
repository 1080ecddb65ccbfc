// Package ratelimit throttles report delivery per recipient.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits or rejects one event for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config sizes a limiter: at most Requests events per Window for each key.
type Config struct {
	Requests  int
	Window    time.Duration
	KeyPrefix string
}

// Unlimited admits everything.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true, Remaining: -1}, nil
}
