package testutil

import "time"

// FixedClock always reports the same instant. Inject it into a table so the
// scan date stamped by a rescan is deterministic.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// SteppingClock reports an instant that advances by Step on every call.
// Useful when a test needs each scan to carry a distinct date.
type SteppingClock struct {
	Time time.Time
	Step time.Duration
}

// Now returns the current instant and advances the clock.
func (c *SteppingClock) Now() time.Time {
	now := c.Time
	c.Time = c.Time.Add(c.Step)
	return now
}
