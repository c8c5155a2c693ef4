package worker

import (
	"math"
	"time"
)

// RetryPolicy describes exponential backoff between failed report builds.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries <= 0 {
		p.MaxRetries = 5
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = 2 * time.Second
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = time.Minute
	}
	if p.BackoffFactor <= 0 {
		p.BackoffFactor = 2
	}
	return p
}

// NextDelay returns the backoff before the given 1-based attempt, clamped to
// MaxDelay.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	p = p.normalized()
	if attempt < 1 {
		attempt = 1
	}

	delay := time.Duration(float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(attempt-1)))
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if delay <= 0 {
		delay = p.MaxDelay
	}
	return delay
}
