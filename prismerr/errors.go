// Package prismerr holds the ComputationError family (spec.md §7): fatal,
// short-circuiting errors shared across engine, cache, bytecode, and
// solver — as opposed to the non-fatal, collected ValidationError family
// that lives in package validate.
package prismerr

import (
	"errors"
	"fmt"
)

// ErrReentrantCompute is returned when a compute/solve call is attempted
// while another is already running on the same Model (spec.md §5: nested
// compute calls are forbidden).
var ErrReentrantCompute = errors.New("prism: reentrant compute call")

// DimensionMismatch indicates a constant or solver trial vector's length
// did not match the expected model length.
type DimensionMismatch struct {
	ExpectedLen int
	Got         int
}

func (e *DimensionMismatch) Error() string {
	return fmt.Sprintf("prism: dimension mismatch: expected len %d, got %d", e.ExpectedLen, e.Got)
}

// SolveReason enumerates why the solver bridge gave up.
type SolveReason int

const (
	ReasonNotConverged SolveReason = iota
	ReasonMaxIterExceeded
	ReasonTimeout
)

func (r SolveReason) String() string {
	switch r {
	case ReasonNotConverged:
		return "NotConverged"
	case ReasonMaxIterExceeded:
		return "MaxIterExceeded"
	case ReasonTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// TraceRecord is one (iter, obj_val, inf_pr, inf_du) entry of the solver's
// convergence history (spec.md §4.9), surfaced for the audit layer rather
// than logged.
type TraceRecord struct {
	Iter   int
	ObjVal float64
	InfPr  float64
	InfDu  float64
}

// SolveFailed is returned when the solver bridge exhausts its iteration
// or wall-clock budget without converging.
type SolveFailed struct {
	Reason  SolveReason
	History []TraceRecord
}

func (e *SolveFailed) Error() string {
	return fmt.Sprintf("prism: solve failed: %s (history: %d iterations)", e.Reason, len(e.History))
}
