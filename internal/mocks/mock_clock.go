package mocks

import (
	"time"

	"github.com/you/credsvc/domain"
)

// FixedClock implements domain.Clock with a settable instant, so expiry
// boundaries can be tested deterministically.
type FixedClock struct {
	Instant time.Time
}

// NewFixedClock creates a FixedClock pinned to the given instant
func NewFixedClock(instant time.Time) *FixedClock {
	return &FixedClock{Instant: instant}
}

func (c *FixedClock) Now() time.Time {
	return c.Instant
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.Instant = c.Instant.Add(d)
}

var _ domain.Clock = (*FixedClock)(nil)
