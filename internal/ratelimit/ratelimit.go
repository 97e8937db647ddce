// Package ratelimit provides a fixed-window per-user rate limiter.
//
// Counters live in Redis when it is configured so limits hold across
// instances; otherwise an in-memory window map serves a single instance.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/createconomy/createconomy/internal/cache"
)

// ErrLimited is returned when an action exceeds its window allowance
var ErrLimited = fmt.Errorf("rate limit exceeded")

// Limiter counts actions per user within fixed windows
type Limiter struct {
	cache *cache.Cache

	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

// New creates a limiter. The cache may be nil, in which case counting is
// in-process only.
func New(c *cache.Cache) *Limiter {
	return &Limiter{
		cache:   c,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records one occurrence of action by user and reports whether it
// fits within limit occurrences per the given window. Returns ErrLimited
// when the allowance is exhausted.
func (l *Limiter) Allow(ctx context.Context, action string, userID int64, limit int, per time.Duration) error {
	key := fmt.Sprintf("ratelimit:%s:%d", action, userID)

	if l.cache != nil {
		count, err := l.cache.Incr(ctx, key, per)
		if err == nil {
			if count > int64(limit) {
				return ErrLimited
			}
			return nil
		}
		if err != cache.ErrCacheDisabled {
			// Redis trouble should not block user actions
			return nil
		}
	}

	return l.allowLocal(key, limit, per)
}

func (l *Limiter) allowLocal(key string, limit int, per time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= per {
		l.windows[key] = &window{start: now, count: 1}
		return nil
	}

	w.count++
	if w.count > limit {
		return ErrLimited
	}
	return nil
}
