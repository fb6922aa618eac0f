package mwdgtest

import "sync/atomic"

// ManualClock is a clock capability whose counter only moves when a test
// tells it to. It is safe for concurrent use, since the engine reads the clock
// outside the critical section.
type ManualClock struct {
	ms atomic.Uint32
}

// NewManualClock returns a clock starting at the given millisecond count.
// Starting near the top of the uint32 range is the easy way to exercise
// wraparound.
func NewManualClock(startMS uint32) *ManualClock {
	c := new(ManualClock)
	c.ms.Store(startMS)
	return c
}

func (c *ManualClock) NowMS() uint32 {
	return c.ms.Load()
}

// Set jumps the counter to the given value.
func (c *ManualClock) Set(ms uint32) {
	c.ms.Store(ms)
}

// Advance moves the counter forward by d milliseconds, wrapping like the
// real counter does.
func (c *ManualClock) Advance(d uint32) {
	c.ms.Add(d)
}
