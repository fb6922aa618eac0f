// Package mhost provides the threaded-host implementations of the engine's
// capabilities: a monotonic millisecond clock backed by the OS clock and a
// mutex-backed critical section.
// Bare-metal integrators supply their own implementations
// (hardware timer read, interrupt masking) against the same interfaces.
package mhost
