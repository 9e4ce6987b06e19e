package scip

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRelaxer is returned by New when no Relaxer is given.
	ErrMissingRelaxer = errors.New("relaxer must not be nil")

	// ErrMissingBrancher is returned by New when no Brancher is given.
	ErrMissingBrancher = errors.New("brancher must not be nil")

	// ErrSolveDone is returned when Solve is called again after the search
	// terminated with an optimal or infeasible status.
	ErrSolveDone = errors.New("solve already finished")
)

// ErrUnknownSelector indicates a node selector name with no registered
// implementation.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnknownSelector struct {
	Name  string
	cause error
}

func (e *ErrUnknownSelector) Error() string {
	return fmt.Sprintf("unknown node selector: %q", e.Name)
}

func (e *ErrUnknownSelector) Unwrap() error { return e.cause }

// ErrInvalidBound indicates a child lower bound that is not a finite number.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidBound struct {
	Bound float64
	cause error
}

func (e *ErrInvalidBound) Error() string {
	return fmt.Sprintf("invalid lower bound: %g", e.Bound)
}

func (e *ErrInvalidBound) Unwrap() error { return e.cause }
