package pipeline

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned when a newer run invalidated this one mid-flight.
// The superseded run's results are discarded, not merged; callers simply wait
// for the newer run.
var ErrSuperseded = errors.New("analysis run superseded by a newer request")

// FatalError is the only error category that crosses the orchestrator
// boundary: the document is not a supported profile page, or the storage
// collaborator is entirely unavailable. Everything else is contained per
// section and recovered internally.
type FatalError struct {
	Message string
	Cause   error
}

func (e *FatalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fatal: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("fatal: %s", e.Message)
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}
