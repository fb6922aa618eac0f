// Package mwdgtest provides capability implementations for tests:
// a manually driven clock and a critical section that records its usage.
package mwdgtest
