// Package clock abstracts wall-clock time so expiry and epoch logic can be
// driven from tests.
package clock

import "time"

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time in UTC, matching what storage round-trips
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}
