package process

import (
	"errors"
	"fmt"
)

// Spawn failure stages reported in SpawnError.Op.
const (
	OpLookup  = "lookup"
	OpWorkDir = "workdir"
	OpOutput  = "output"
	OpStart   = "start"
)

// SpawnError reports that a process could not be created.
type SpawnError struct {
	Op      string
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %q: %s: %v", e.Command, e.Op, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ErrTerminationFailed matches any *TerminationFailure via errors.Is.
var ErrTerminationFailed = errors.New("process survived forced termination")

// TerminationFailure reports a process still present after a forced kill.
type TerminationFailure struct {
	PID int
}

func (e *TerminationFailure) Error() string {
	return fmt.Sprintf("pid %d: %v", e.PID, ErrTerminationFailed)
}

func (e *TerminationFailure) Is(target error) bool { return target == ErrTerminationFailed }

// QueryError wraps a failed process table query. Controllers log it and
// report an empty result instead of returning it.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string { return "query " + e.Op + ": " + e.Err.Error() }

func (e *QueryError) Unwrap() error { return e.Err }
