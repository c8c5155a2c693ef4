package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter answers whether the caller identified by key may make another
// request inside the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter keeps a token bucket per caller in process memory. It serves
// as the fallback when Redis is unreachable and as the sole limiter when
// Redis is not configured.
type MemoryLimiter struct {
	limit    rate.Limit
	burst    int
	limiters sync.Map // map[string]*rate.Limiter
}

// NewMemoryLimiter allows up to limit requests per window, with bursts up to
// the full window budget.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		limit: rate.Limit(float64(limit) / window.Seconds()),
		burst: limit,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.limiterFor(key).Allow(), nil
}

func (l *MemoryLimiter) limiterFor(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
