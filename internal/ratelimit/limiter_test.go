package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("counts within window", func(t *testing.T) {
		l := NewMemoryLimiter(2, time.Minute)

		for i := 0; i < 2; i++ {
			allowed, err := l.Allow(ctx, "42")
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := l.Allow(ctx, "42")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("keys are independent", func(t *testing.T) {
		l := NewMemoryLimiter(1, time.Minute)

		allowed, err := l.Allow(ctx, "1")
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = l.Allow(ctx, "2")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("tokens refill", func(t *testing.T) {
		l := NewMemoryLimiter(1, 50*time.Millisecond)

		allowed, err := l.Allow(ctx, "42")
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = l.Allow(ctx, "42")
		require.NoError(t, err)
		assert.False(t, allowed)

		time.Sleep(80 * time.Millisecond)

		allowed, err = l.Allow(ctx, "42")
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRedisLimiter(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	ctx := context.Background()
	window := time.Second
	l := NewRedisLimiter(client, 2, window)

	t.Run("counts within window", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			allowed, err := l.Allow(ctx, "42")
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := l.Allow(ctx, "42")
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = l.Allow(ctx, "42")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("nil client", func(t *testing.T) {
		l := NewRedisLimiter(nil, 2, window)
		_, err := l.Allow(ctx, "42")
		assert.Error(t, err)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})
}

type failingLimiter struct {
	err error
}

func (f *failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, f.err
}

func TestFailoverLimiter(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("uses primary when healthy", func(t *testing.T) {
		primary := NewMemoryLimiter(1, time.Minute)
		fallback := NewMemoryLimiter(100, time.Minute)
		l := NewFailoverLimiter(primary, fallback, &logger)

		allowed, err := l.Allow(ctx, "42")
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = l.Allow(ctx, "42")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("falls back when primary fails", func(t *testing.T) {
		primary := &failingLimiter{err: errors.New("connection refused")}
		fallback := NewMemoryLimiter(1, time.Minute)
		l := NewFailoverLimiter(primary, fallback, &logger)

		allowed, err := l.Allow(ctx, "42")
		require.NoError(t, err)
		assert.True(t, allowed)

		// Primary stays marked down, the fallback keeps counting.
		allowed, err = l.Allow(ctx, "42")
		require.NoError(t, err)
		assert.False(t, allowed)
	})
}
