package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestRecorders(t *testing.T) {
	Register()
	assert.NotPanics(t, func() {
		ObserveHTTP("/bookings", "200", 15*time.Millisecond)
		IncBookingCreated()
		IncBookingDecision(true)
		IncBookingDecision(false)
	})
}
