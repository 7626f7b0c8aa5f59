package validate

import (
	"github.com/prism-finance/prism/registry"
	"github.com/prism-finance/prism/topology"
	"github.com/prism-finance/prism/units"
)

// Observer receives non-fatal progress callbacks during validation,
// mirroring the teacher lineage's OnVisit-style traversal hooks rather
// than writing to a logger (spec.md's ambient-stack convention carried
// into SPEC_FULL.md §2).
type Observer struct {
	// OnDiagnostic is invoked for every ValidationError as it is found,
	// in addition to it being collected into the returned slice.
	OnDiagnostic func(ValidationError)
}

// Validate runs the two-pass validator over reg: inference (bottom-up
// TemporalKind/Unit over topological order, cached per node) then
// verification (declared-vs-inferred diagnostics, collected without
// stopping). The returned error is reserved for fatal, structural
// failures — a *topology.CycleDetected — that pre-empt inference
// entirely; the []ValidationError slice carries everything else and is
// empty iff the graph is fully consistent (spec.md §4.2, §7).
func Validate(reg *registry.Registry, obs *Observer) ([]ValidationError, error) {
	order, err := topology.Order(reg)
	if err != nil {
		return nil, err
	}

	var diags []ValidationError
	report := func(e ValidationError) {
		diags = append(diags, e)
		if obs != nil && obs.OnDiagnostic != nil {
			obs.OnDiagnostic(e)
		}
	}

	for _, id := range order {
		node, gerr := reg.Get(id)
		if gerr != nil {
			return nil, gerr
		}

		kind, unit := inferOne(reg, id, node, report)
		unitStr := unit.String()
		if serr := reg.SetInferred(id, kind, unitStr); serr != nil {
			return nil, serr
		}

		if node.HasDeclaredKind && node.DeclaredKind != kind {
			report(&KindMismatch{Node: id, Inferred: kind, Declared: node.DeclaredKind})
		}
		if node.HasDeclaredUnit {
			declaredUnit, perr := units.Parse(node.DeclaredUnit)
			if perr != nil {
				// An unparsable declaration can never match; surface it the
				// same way a numeric mismatch would.
				report(&UnitMismatch{Node: id, Inferred: unitStr, Declared: node.DeclaredUnit})
			} else if !units.Equal(unit, declaredUnit) {
				report(&UnitMismatch{Node: id, Inferred: unitStr, Declared: declaredUnit.String()})
			}
		}
		if node.Op == registry.OpSolverVar && !node.HasDeclaredKind && !node.HasDeclaredUnit {
			report(&UndeclaredRequired{Node: id})
		}
	}

	return diags, nil
}

// inferOne computes (kind, unit) for a single node from its already-cached
// parents, recording any KindAddError/UnitMismatch the combination itself
// produces (as opposed to a declared-vs-inferred mismatch, handled by the
// caller).
func inferOne(reg *registry.Registry, id registry.NodeId, node registry.Node, report func(ValidationError)) (registry.TemporalKind, units.Unit) {
	leafKind := func() registry.TemporalKind {
		if node.HasDeclaredKind {
			return node.DeclaredKind
		}
		return registry.KindUnknown
	}
	leafUnit := func() units.Unit {
		if node.HasDeclaredUnit {
			if u, err := units.Parse(node.DeclaredUnit); err == nil {
				return u
			}
		}
		return units.Dimensionless()
	}

	switch node.Op {
	case registry.OpConst, registry.OpSolverVar:
		return leafKind(), leafUnit()

	case registry.OpNeg, registry.OpPrev:
		pk, pu := parentKindUnit(reg, node.Parents[0])
		if node.Op == registry.OpPrev {
			return registry.CombinePrev(pk), pu
		}
		return registry.CombineNeg(pk), pu

	case registry.OpAdd, registry.OpSub:
		lk, lu := parentKindUnit(reg, node.Parents[0])
		rk, ru := parentKindUnit(reg, node.Parents[1])

		var kind registry.TemporalKind
		var ok bool
		if node.Op == registry.OpSub {
			kind, ok = registry.CombineSub(lk, rk, isPrevOf(reg, node.Parents[1], node.Parents[0]))
		} else {
			kind, ok = registry.CombineAdd(lk, rk)
		}
		if !ok {
			report(&KindAddError{Node: id, LHSKind: lk, RHSKind: rk})
			kind = registry.KindUnknown
		}
		if !units.Equal(lu, ru) {
			report(&UnitMismatch{Node: id, Inferred: lu.String(), Declared: ru.String()})
		}
		return kind, lu

	case registry.OpMul:
		lk, lu := parentKindUnit(reg, node.Parents[0])
		rk, ru := parentKindUnit(reg, node.Parents[1])
		kind, _ := registry.CombineMul(lk, rk)
		return kind, units.Mul(lu, ru)

	case registry.OpDiv:
		lk, lu := parentKindUnit(reg, node.Parents[0])
		rk, ru := parentKindUnit(reg, node.Parents[1])
		kind, _ := registry.CombineDiv(lk, rk)
		return kind, units.Div(lu, ru)

	case registry.OpConstraint:
		return registry.KindUnknown, units.Dimensionless()

	default:
		return registry.KindUnknown, units.Dimensionless()
	}
}

// parentKindUnit reads a parent's cached inference result (already
// computed earlier in the topological pass) and its canonical unit.
func parentKindUnit(reg *registry.Registry, id registry.NodeId) (registry.TemporalKind, units.Unit) {
	kind, _, _ := reg.InferredKind(id)
	unitStr, _ := reg.InferredUnit(id)
	u, err := units.Parse(unitStr)
	if err != nil {
		u = units.Dimensionless()
	}
	return kind, u
}

// isPrevOf reports whether candidate's node is literally Prev(of) —
// the structural exception that demotes Stock−Stock_prev to Flow
// (spec.md §3).
func isPrevOf(reg *registry.Registry, candidate, of registry.NodeId) bool {
	n, err := reg.Get(candidate)
	if err != nil || n.Op != registry.OpPrev {
		return false
	}
	return n.Parents[0] == of
}
