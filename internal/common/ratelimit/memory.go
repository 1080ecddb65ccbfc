package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type memoryEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory. Buckets
// hold cfg.Requests tokens and refill evenly over cfg.Window.
type MemoryLimiter struct {
	mu              sync.Mutex
	limit           rate.Limit
	burst           int
	entries         map[string]*memoryEntry
	entryTTL        time.Duration
	cleanupInterval time.Duration
	lastCleanup     time.Time
	now             func() time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return newMemoryLimiter(cfg, time.Now)
}

func newMemoryLimiter(cfg Config, now func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{
		limit:           rate.Every(cfg.Window / time.Duration(cfg.Requests)),
		burst:           cfg.Requests,
		entries:         make(map[string]*memoryEntry),
		entryTTL:        cfg.Window * 2,
		cleanupInterval: cfg.Window,
		lastCleanup:     now(),
		now:             now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) >= l.cleanupInterval {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > l.entryTTL {
				delete(l.entries, k)
			}
		}
		l.lastCleanup = now
	}

	e, ok := l.entries[key]
	if !ok {
		e = &memoryEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now

	if e.limiter.AllowN(now, 1) {
		return Decision{Allowed: true, Remaining: int(e.limiter.TokensAt(now))}, nil
	}

	r := e.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return Decision{Allowed: false, RetryAfter: delay}, nil
}

// size reports the number of tracked keys.
func (l *MemoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
