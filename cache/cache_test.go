package cache_test

import (
	"testing"

	"github.com/prism-finance/prism/cache"
	"github.com/prism-finance/prism/ledger"
	"github.com/prism-finance/prism/registry"
	"github.com/stretchr/testify/require"
)

// buildChain builds a 10-node linear Add chain: n0 is a Const seed, each
// subsequent node adds a constant increment to the previous one — the
// seed scenario 6 chain (10 nodes, 9 instructions downstream of the
// root's constant).
func buildChain(t *testing.T) (*registry.Registry, []registry.NodeId) {
	t.Helper()
	reg := registry.New()
	ids := make([]registry.NodeId, 0, 10)

	seed, err := reg.AddConst([]float64{1}, "seed")
	require.NoError(t, err)
	ids = append(ids, seed)

	prev := seed
	for i := 1; i < 10; i++ {
		inc, err := reg.AddConst([]float64{1}, "inc")
		require.NoError(t, err)
		next, err := reg.AddBinOp(registry.OpAdd, prev, inc, "")
		require.NoError(t, err)
		ids = append(ids, next)
		prev = next
	}
	return reg, ids
}

func TestComputeThenRecomputeMatchesFullRecompile(t *testing.T) {
	reg, ids := buildChain(t)
	root := ids[0]

	led := ledger.New(reg.Len(), 1)
	// Compute never writes Const rows; seed them from the registry first.
	for i := 0; i < reg.Len(); i++ {
		n, err := reg.Get(registry.NodeId(i))
		require.NoError(t, err)
		if n.Op == registry.OpConst {
			require.NoError(t, led.WriteConst(registry.NodeId(i), n.ConstantPayload))
		}
	}
	c := cache.New()
	require.NoError(t, c.Compute(reg, led))

	last := ids[len(ids)-1]
	row, err := led.RowPtr(last)
	require.NoError(t, err)
	require.Equal(t, 10.0, row[0]) // 1 + nine increments of 1

	require.NoError(t, reg.UpdateConstant(root, []float64{5}))
	require.NoError(t, c.Recompute(reg, led, []registry.NodeId{root}))

	row, err = led.RowPtr(last)
	require.NoError(t, err)
	require.Equal(t, 14.0, row[0])

	// A from-scratch full recompile over the same mutated registry must
	// agree with the incremental result exactly.
	fresh := cache.New()
	freshLedger := ledger.New(reg.Len(), 1)
	// Seed every Const row from the registry's current payload, as a real
	// caller would after a batch of UpdateConstant calls.
	for i := 0; i < reg.Len(); i++ {
		n, err := reg.Get(registry.NodeId(i))
		require.NoError(t, err)
		if n.Op == registry.OpConst {
			require.NoError(t, freshLedger.WriteConst(registry.NodeId(i), n.ConstantPayload))
		}
	}
	require.NoError(t, fresh.Compute(reg, freshLedger))

	freshRow, err := freshLedger.RowPtr(last)
	require.NoError(t, err)
	require.Equal(t, row, freshRow)
}

func TestComputeRecompilesOnlyOnRevisionChange(t *testing.T) {
	reg, ids := buildChain(t)
	led := ledger.New(reg.Len(), 1)
	c := cache.New()

	require.NoError(t, c.Compute(reg, led))
	progBefore := c.Program()

	// UpdateConstant bumps ConstEpoch only; Compute must not recompile.
	require.NoError(t, reg.UpdateConstant(ids[0], []float64{9}))
	require.NoError(t, c.Compute(reg, led))
	require.Same(t, progBefore, c.Program())
}

func TestRecomputeRejectsNonConstNode(t *testing.T) {
	reg, ids := buildChain(t)
	led := ledger.New(reg.Len(), 1)
	c := cache.New()
	require.NoError(t, c.Compute(reg, led))

	err := c.Recompute(reg, led, []registry.NodeId{ids[1]})
	require.Error(t, err)
}
