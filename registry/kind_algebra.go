package registry

// CombineAdd implements the TemporalKind algebra for Add (spec.md §3):
// Flow±Flow=Flow, Stock±Stock=Stock, Dimensionless is absorbed by either
// side, Unknown propagates and defers to declaration, and any other
// mixture (e.g. Stock+Flow) is rejected — the caller reports KindAddError.
func CombineAdd(a, b TemporalKind) (TemporalKind, bool) {
	switch {
	case a == KindUnknown || b == KindUnknown:
		return KindUnknown, true
	case a == KindDimensionless:
		return b, true
	case b == KindDimensionless:
		return a, true
	case a == b:
		return a, true
	default:
		return KindUnknown, false
	}
}

// CombineSub implements the TemporalKind algebra for Sub. It is identical
// to CombineAdd except for the one structural exception in spec.md §3:
// Stock − Stock_prev = Flow. bIsPrevOfA must be true only when b's node is
// literally Prev(a's node) — the validator detects this from the graph
// shape, not from kinds alone, since both operands carry TemporalKind
// Stock.
func CombineSub(a, b TemporalKind, bIsPrevOfA bool) (TemporalKind, bool) {
	if bIsPrevOfA && a == KindStock && b == KindStock {
		return KindFlow, true
	}
	return CombineAdd(a, b)
}

// CombineMul implements the Mul/Div-adjacent algebra: Dimensionless is
// absorbed by either side, Rate*Flow=Flow (either operand order) per
// spec.md §3, Rate*Rate=Rate, Unknown propagates. Any other combination is
// underdetermined by the spec and defers to Unknown rather than erroring
// — Mul/Div have no KindMulError in spec.md §7's error families.
func CombineMul(a, b TemporalKind) (TemporalKind, bool) {
	switch {
	case a == KindDimensionless:
		return b, true
	case b == KindDimensionless:
		return a, true
	case a == KindUnknown || b == KindUnknown:
		return KindUnknown, true
	case a == KindRate && b == KindFlow:
		return KindFlow, true
	case a == KindFlow && b == KindRate:
		return KindFlow, true
	case a == KindRate && b == KindRate:
		return KindRate, true
	default:
		return KindUnknown, true
	}
}

// CombineDiv implements the reciprocal half of CombineMul: dividing by
// Dimensionless leaves the numerator's kind untouched, dividing a kind by
// itself yields a Rate (a ratio of like quantities), Flow/Rate=Flow, and
// everything else defers to Unknown.
func CombineDiv(a, b TemporalKind) (TemporalKind, bool) {
	switch {
	case b == KindDimensionless:
		return a, true
	case a == KindUnknown || b == KindUnknown:
		return KindUnknown, true
	case a == b:
		return KindRate, true
	case a == KindFlow && b == KindRate:
		return KindFlow, true
	default:
		return KindUnknown, true
	}
}

// CombineNeg implements Neg: negation never changes temporal kind.
func CombineNeg(a TemporalKind) TemporalKind { return a }

// CombinePrev implements Prev(k): a lookback never changes temporal kind
// on its own; the Stock-minus-its-own-Prev exception lives in CombineSub.
func CombinePrev(a TemporalKind) TemporalKind { return a }
