package mwdg

import "errors"

// The engine's failure surface is entirely precondition violations:
// every operation either completes deterministically or reports that the
// caller broke the contract. Nothing here is transient or retryable,
// and no violation corrupts the registry.
var (
	// ErrNotInitialized indicates an operation on an Engine that was not
	// produced by [New]. The zero-value Engine degrades to this error
	// instead of dereferencing nil capabilities.
	ErrNotInitialized = errors.New("engine not initialized; construct it with mwdg.New")

	// ErrNilNode indicates a nil *Node was passed to a node operation.
	ErrNilNode = errors.New("nil watchdog node")

	// ErrInvalidTimeout indicates a registration timeout that is not
	// positive or does not fit the clock's uint32 millisecond domain.
	ErrInvalidTimeout = errors.New("watchdog timeout must be positive and below 2^32 milliseconds")

	// ErrAlreadyRegistered indicates an attempt to register a node that is
	// currently linked into the registry. Re-registration is rejected
	// rather than treated as idempotent, to keep the intrusive list
	// cycle-free.
	ErrAlreadyRegistered = errors.New("watchdog node already registered")

	// ErrNotRegistered indicates a feed, id assignment, or unregistration
	// on a node that is not currently linked into the registry.
	ErrNotRegistered = errors.New("watchdog node not registered")
)
