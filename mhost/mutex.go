package mhost

import "sync"

// Mutex adapts a [sync.Mutex] to the engine's critical-section capability.
// The zero value is ready to use.
type Mutex struct {
	mu sync.Mutex
}

func (m *Mutex) Enter() { m.mu.Lock() }

func (m *Mutex) Exit() { m.mu.Unlock() }
