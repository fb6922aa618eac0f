package msup

import (
	"context"
	"errors"
	"fmt"
)

// IsTermination reports whether the context was cancelled by the supervisor.
func IsTermination(ctx context.Context) bool {
	e := context.Cause(ctx)
	if e == nil {
		return false
	}

	var se StallError
	if errors.As(e, &se) {
		return true
	}

	var ft ForcedTerminationError
	return errors.As(e, &ft)
}

// StallError indicates a check pass found watchdogs that were not fed
// within their timeout. IDs holds the identifiers drained from the engine
// during that pass.
type StallError struct {
	IDs []uint32
}

func (e StallError) Error() string {
	return fmt.Sprintf("watchdogs %v expired without being fed within their timeout", e.IDs)
}

// ForcedTerminationError indicates that [*Supervisor.Terminate] was called.
type ForcedTerminationError struct {
	Reason string
}

func (e ForcedTerminationError) Error() string {
	return "supervisor forced termination: " + e.Reason
}
