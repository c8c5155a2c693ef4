package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// FailoverLimiter prefers the primary limiter and switches to the fallback
// when the primary errors. It retries the primary a minute after the last
// failure.
type FailoverLimiter struct {
	primary   Limiter
	fallback  Limiter
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverLimiter(primary, fallback Limiter, logger *zerolog.Logger) *FailoverLimiter {
	return &FailoverLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (l *FailoverLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.isDown.Load() {
		allowed, err := l.primary.Allow(ctx, key)
		if err == nil {
			return allowed, nil
		}
		l.logger.Error().Err(err).Msg("primary rate limiter failed, falling back to memory")
		l.isDown.Store(true)
		l.lastCheck.Store(time.Now().UnixNano())
	}

	if l.isDown.Load() && time.Since(time.Unix(0, l.lastCheck.Load())) > time.Minute {
		allowed, err := l.primary.Allow(ctx, key)
		if err == nil {
			l.isDown.Store(false)
			return allowed, nil
		}
		l.lastCheck.Store(time.Now().UnixNano())
	}

	return l.fallback.Allow(ctx, key)
}
