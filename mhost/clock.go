package mhost

import "time"

// MonotonicClock reports milliseconds elapsed since its construction,
// truncated to uint32. The counter wraps after roughly 49.7 days, which the
// engine's modular elapsed-time arithmetic tolerates.
type MonotonicClock struct {
	origin time.Time
}

// NewMonotonicClock returns a clock whose counter starts near zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{origin: time.Now()}
}

func (c *MonotonicClock) NowMS() uint32 {
	// time.Since uses the runtime's monotonic reading,
	// so the counter never goes backwards on wall-clock adjustments.
	return uint32(time.Since(c.origin).Milliseconds())
}
