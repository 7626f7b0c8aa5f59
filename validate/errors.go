package validate

import (
	"fmt"
	"strings"

	"github.com/prism-finance/prism/registry"
)

// ValidationError is the non-fatal, collected error family of spec.md §7.
// Validate gathers every diagnostic it finds into a slice rather than
// stopping at the first.
type ValidationError interface {
	error
	isValidationError()
}

// UnitMismatch fires in two situations (both surfaced with this one type,
// since spec.md's error list has no separate case for the second): (a) a
// node's declared unit disagrees with its canonically inferred unit, or
// (b) an Add/Sub node's two operands carry unequal unit signatures, in
// which case Declared carries the right-hand operand's unit string
// instead of a user declaration (spec.md §8 seed scenario 5).
type UnitMismatch struct {
	Node     registry.NodeId
	Inferred string
	Declared string
}

func (e *UnitMismatch) isValidationError() {}
func (e *UnitMismatch) Error() string {
	return fmt.Sprintf("validate: node %d: unit mismatch: inferred %q, declared %q", e.Node, e.Inferred, e.Declared)
}

// KindMismatch fires when a node's declared TemporalKind disagrees with
// its inferred TemporalKind.
type KindMismatch struct {
	Node     registry.NodeId
	Inferred registry.TemporalKind
	Declared registry.TemporalKind
}

func (e *KindMismatch) isValidationError() {}
func (e *KindMismatch) Error() string {
	return fmt.Sprintf("validate: node %d: kind mismatch: inferred %s, declared %s", e.Node, e.Inferred, e.Declared)
}

// KindAddError fires when Add/Sub is applied to operands whose
// TemporalKinds cannot be combined (e.g. Stock±Flow with neither side
// Dimensionless), per the algebra in registry.CombineAdd/CombineSub.
type KindAddError struct {
	Node     registry.NodeId
	LHSKind  registry.TemporalKind
	RHSKind  registry.TemporalKind
}

func (e *KindAddError) isValidationError() {}
func (e *KindAddError) Error() string {
	return fmt.Sprintf("validate: node %d: cannot add %s and %s", e.Node, e.LHSKind, e.RHSKind)
}

// UndeclaredRequired fires when a node the solver bridge treats as an
// opaque decision variable (a SolverVar) carries neither a declared kind
// nor a declared unit — inference has no operand to derive either from,
// and the solver needs at least one to make sense of a converged value.
type UndeclaredRequired struct {
	Node registry.NodeId
}

func (e *UndeclaredRequired) isValidationError() {}
func (e *UndeclaredRequired) Error() string {
	return fmt.Sprintf("validate: node %d: solver variable requires a declared kind or unit", e.Node)
}

// Errors aggregates the diagnostics Validate collects into a single error
// value, so a caller that refuses to compute on a non-empty diagnostic
// list (spec.md §7) has one thing to return.
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, d := range e {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("validate: %d diagnostic(s): %s", len(e), strings.Join(msgs, "; "))
}
