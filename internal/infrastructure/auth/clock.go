package auth

import (
	"time"

	"github.com/you/credsvc/domain"
)

// SystemClock reads the wall clock. Everything time-sensitive takes a
// domain.Clock so tests can pin time instead.
type SystemClock struct{}

func NewSystemClock() domain.Clock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
