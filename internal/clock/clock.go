// Package clock abstracts time so run durations are deterministic in tests.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed on clk since start.
func Since(clk Clock, start time.Time) time.Duration {
	return clk.Now().Sub(start)
}

// StepClock is a fake Clock that advances by a fixed step every time Now is
// called. A zero step behaves like a frozen clock.
type StepClock struct {
	current time.Time
	step    time.Duration
}

// NewStepClock creates a StepClock starting at t.
func NewStepClock(t time.Time, step time.Duration) *StepClock {
	return &StepClock{current: t, step: step}
}

// Now returns the current fake time, then advances it by the step.
func (c *StepClock) Now() time.Time {
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// Advance moves the fake time forward by d.
func (c *StepClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
