package kernel_test

import (
	"testing"

	"github.com/prism-finance/prism/bytecode"
	"github.com/prism-finance/prism/kernel"
	"github.com/stretchr/testify/require"
)

// scalarDispatch is the naive one-lane-at-a-time reference implementation
// every lane-width-4 kernel must agree with, for every modelLen.
func scalarDispatch(op bytecode.Op, target, a, b []float64) {
	for i := range target {
		switch op {
		case bytecode.OpAdd:
			target[i] = a[i] + b[i]
		case bytecode.OpSub:
			target[i] = a[i] - b[i]
		case bytecode.OpMul:
			target[i] = a[i] * b[i]
		case bytecode.OpDiv:
			target[i] = a[i] / b[i]
		}
	}
}

func seqFloats(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

func TestDispatchMatchesScalarAcrossModelLens(t *testing.T) {
	lens := []int{1, 3, 4, 5, 7, 16, 17}
	ops := []bytecode.Op{bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv}

	for _, n := range lens {
		for _, op := range ops {
			a := seqFloats(n, 1)
			b := seqFloats(n, 2)

			got := make([]float64, n)
			kernel.Dispatch(op, got, a, b)

			want := make([]float64, n)
			scalarDispatch(op, want, a, b)

			require.Equal(t, want, got, "op=%s modelLen=%d", op, n)
		}
	}
}

func TestNegMatchesScalarAcrossModelLens(t *testing.T) {
	for _, n := range []int{1, 3, 4, 5, 7, 16, 17} {
		a := seqFloats(n, 1)
		got := make([]float64, n)
		kernel.Neg(got, a)

		want := make([]float64, n)
		for i := range want {
			want[i] = -a[i]
		}
		require.Equal(t, want, got)
	}
}

func TestDispatchAllowsTargetAliasingOperand(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 10, 10, 10, 10}
	kernel.Dispatch(bytecode.OpAdd, a, a, b)
	require.Equal(t, []float64{11, 12, 13, 14, 15}, a)
}

func TestPrevShiftsAndZeroFillsLeadingLag(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	target := make([]float64, 4)
	kernel.Prev(target, a, 1)
	require.Equal(t, []float64{0, 1, 2, 3}, target)
}

func TestPrevZeroLag(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	target := make([]float64, 4)
	kernel.Prev(target, a, 0)
	require.Equal(t, []float64{1, 2, 3, 4}, target)
}

func TestPrevLagExceedsModelLen(t *testing.T) {
	a := []float64{1, 2, 3}
	target := []float64{9, 9, 9}
	kernel.Prev(target, a, 5)
	require.Equal(t, []float64{0, 0, 0}, target)
}

func TestPrevAliasedBufferMatchesNonAliased(t *testing.T) {
	base := []float64{1, 2, 3, 4, 5, 6, 7}
	nonAliased := make([]float64, len(base))
	kernel.Prev(nonAliased, base, 2)

	aliased := append([]float64(nil), base...)
	kernel.Prev(aliased, aliased, 2)

	require.Equal(t, nonAliased, aliased)
}
