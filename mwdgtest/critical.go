package mwdgtest

import (
	"sync"
	"sync/atomic"
)

// SpyCritical is a real mutex-backed critical section that additionally
// counts Enter and Exit calls, so tests can assert that engine operations
// actually took the lock and left it balanced.
type SpyCritical struct {
	mu sync.Mutex

	enters atomic.Int64
	exits  atomic.Int64
}

func (c *SpyCritical) Enter() {
	c.enters.Add(1)
	c.mu.Lock()
}

func (c *SpyCritical) Exit() {
	c.mu.Unlock()
	c.exits.Add(1)
}

// Enters reports how many times Enter has been called.
func (c *SpyCritical) Enters() int64 {
	return c.enters.Load()
}

// Balanced reports whether every Enter has been matched by an Exit.
func (c *SpyCritical) Balanced() bool {
	return c.enters.Load() == c.exits.Load()
}
