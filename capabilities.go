package mwdg

// Clock is the time source capability consumed by the engine.
//
// Implementations must be safe for concurrent use:
// the engine reads the clock without holding the critical section.
type Clock interface {
	// NowMS returns a monotonically non-decreasing millisecond counter.
	// The counter is permitted to wrap around the uint32 range;
	// the engine computes elapsed durations with modular subtraction,
	// which stays correct as long as the true elapsed time between a feed
	// and a check does not exceed the counter's full range.
	NowMS() uint32
}

// CriticalSection is the mutual-exclusion capability consumed by the engine.
//
// Enter and Exit guard the registry head and every node field reachable
// from it. The engine calls them strictly paired and never re-enters while
// already holding the section, so a plain mutex or an interrupt-mask toggle
// both satisfy the contract. The engine never invokes caller code between
// Enter and Exit; the guarded sections are short, bounded list operations.
type CriticalSection interface {
	Enter()
	Exit()
}
