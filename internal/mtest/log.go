package mtest

import (
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
)

// NewLogger returns a *slog.Logger associated with the test t.
func NewLogger(t testing.TB) *slog.Logger {
	// slogt has been stable and effective for adapting slog
	// to testing.T.Log calls. Abstracting it behind mtest keeps the
	// direct dependency out of individual test files.
	return slogt.New(t, slogt.Text())
}
