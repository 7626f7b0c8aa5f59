package kernel

import "github.com/prism-finance/prism/bytecode"

// LaneWidth is the SIMD lane width every binary/unary kernel chunks over
// before falling back to a scalar tail (spec.md §4.6). It is a named
// compile-time constant, not a number buried inside a loop bound.
const LaneWidth = 4

// Dispatch routes a binary opcode to its lane kernel. target, a, and b
// must all have equal length (the Ledger's modelLen); target may alias a
// and/or b (the ledger guarantees only target==p1 or target==p2 can
// overlap, never a partial overlap — spec.md §4.5's invariant), and every
// kernel here reads each lane before writing it so that aliasing is safe.
func Dispatch(op bytecode.Op, target, a, b []float64) {
	switch op {
	case bytecode.OpAdd:
		laneAdd(target, a, b)
	case bytecode.OpSub:
		laneSub(target, a, b)
	case bytecode.OpMul:
		laneMul(target, a, b)
	case bytecode.OpDiv:
		laneDiv(target, a, b)
	default:
		panic("kernel: Dispatch called with non-binary opcode " + op.String())
	}
}

// Neg writes target[i] = -a[i] for every lane.
func Neg(target, a []float64) {
	if len(target) == 1 {
		target[0] = -a[0]
		return
	}
	n := len(target)
	chunks := n - n%LaneWidth
	for i := 0; i < chunks; i += LaneWidth {
		target[i] = -a[i]
		target[i+1] = -a[i+1]
		target[i+2] = -a[i+2]
		target[i+3] = -a[i+3]
	}
	for i := chunks; i < n; i++ {
		target[i] = -a[i]
	}
}

// Prev writes target[t] = a[t-k] for t>=k and target[t] = 0.0 for t<k
// (spec.md §4.6). When target and a do not alias, the shift is a single
// non-overlapping copy; when they do alias, a right-to-left scalar copy
// preserves the read-before-write order the shift requires.
func Prev(target, a []float64, k uint32) {
	n := len(target)
	lag := int(k)
	if lag >= n {
		for i := range target {
			target[i] = 0
		}
		return
	}

	if !overlaps(target, a) {
		copy(target[lag:], a[:n-lag])
		for i := 0; i < lag; i++ {
			target[i] = 0
		}
		return
	}

	for t := n - 1; t >= lag; t-- {
		target[t] = a[t-lag]
	}
	for t := 0; t < lag; t++ {
		target[t] = 0
	}
}

// overlaps reports whether two float64 slices share backing storage.
func overlaps(x, y []float64) bool {
	if len(x) == 0 || len(y) == 0 {
		return false
	}
	return &x[0] == &y[0]
}

func laneAdd(target, a, b []float64) {
	n := len(target)
	if n == 1 {
		target[0] = a[0] + b[0]
		return
	}
	chunks := n - n%LaneWidth
	for i := 0; i < chunks; i += LaneWidth {
		target[i] = a[i] + b[i]
		target[i+1] = a[i+1] + b[i+1]
		target[i+2] = a[i+2] + b[i+2]
		target[i+3] = a[i+3] + b[i+3]
	}
	for i := chunks; i < n; i++ {
		target[i] = a[i] + b[i]
	}
}

func laneSub(target, a, b []float64) {
	n := len(target)
	if n == 1 {
		target[0] = a[0] - b[0]
		return
	}
	chunks := n - n%LaneWidth
	for i := 0; i < chunks; i += LaneWidth {
		target[i] = a[i] - b[i]
		target[i+1] = a[i+1] - b[i+1]
		target[i+2] = a[i+2] - b[i+2]
		target[i+3] = a[i+3] - b[i+3]
	}
	for i := chunks; i < n; i++ {
		target[i] = a[i] - b[i]
	}
}

func laneMul(target, a, b []float64) {
	n := len(target)
	if n == 1 {
		target[0] = a[0] * b[0]
		return
	}
	chunks := n - n%LaneWidth
	for i := 0; i < chunks; i += LaneWidth {
		target[i] = a[i] * b[i]
		target[i+1] = a[i+1] * b[i+1]
		target[i+2] = a[i+2] * b[i+2]
		target[i+3] = a[i+3] * b[i+3]
	}
	for i := chunks; i < n; i++ {
		target[i] = a[i] * b[i]
	}
}

// laneDiv performs lane-wise division. A zero divisor yields IEEE ±Inf or
// NaN, propagated without trapping (spec.md §4.6) — Go's float64 division
// already has this behavior, so no extra branching is needed.
func laneDiv(target, a, b []float64) {
	n := len(target)
	if n == 1 {
		target[0] = a[0] / b[0]
		return
	}
	chunks := n - n%LaneWidth
	for i := 0; i < chunks; i += LaneWidth {
		target[i] = a[i] / b[i]
		target[i+1] = a[i+1] / b[i+1]
		target[i+2] = a[i+2] / b[i+2]
		target[i+3] = a[i+3] / b[i+3]
	}
	for i := chunks; i < n; i++ {
		target[i] = a[i] / b[i]
	}
}
