package topology_test

import (
	"testing"

	"github.com/prism-finance/prism/registry"
	"github.com/prism-finance/prism/topology"
	"github.com/stretchr/testify/require"
)

func buildChain(t *testing.T, length int) *registry.Registry {
	t.Helper()
	r := registry.New()
	root, err := r.AddConst([]float64{1, 2, 3}, "root")
	require.NoError(t, err)
	prev := root
	for i := 1; i < length; i++ {
		id, err := r.AddUnop(registry.OpNeg, prev, "n")
		require.NoError(t, err)
		prev = id
	}
	return r
}

func TestOrderIsDeterministicAndRespectsEdges(t *testing.T) {
	r := buildChain(t, 10)
	order1, err := topology.Order(r)
	require.NoError(t, err)
	order2, err := topology.Order(r)
	require.NoError(t, err)
	require.Equal(t, order1, order2)

	pos := make(map[registry.NodeId]int, len(order1))
	for i, id := range order1 {
		pos[id] = i
	}
	for i := 0; i < r.Len(); i++ {
		parents, err := r.ParentsOf(registry.NodeId(i))
		require.NoError(t, err)
		for _, p := range parents {
			require.Less(t, pos[p], pos[registry.NodeId(i)])
		}
	}
}

func TestDownstreamFromExcludesUnrelatedBranches(t *testing.T) {
	r := registry.New()
	a, _ := r.AddConst([]float64{1}, "a")
	b, _ := r.AddConst([]float64{1}, "b")
	sumAB, _ := r.AddBinOp(registry.OpAdd, a, b, "sumAB")
	onlyB, _ := r.AddUnop(registry.OpNeg, b, "onlyB")

	down, err := topology.DownstreamFrom(r, []registry.NodeId{a})
	require.NoError(t, err)
	require.ElementsMatch(t, []registry.NodeId{a, sumAB}, down)
	require.NotContains(t, down, onlyB)
}

func TestDownstreamChainIncludesRootAndDescendants(t *testing.T) {
	r := buildChain(t, 10)
	down, err := topology.DownstreamFrom(r, []registry.NodeId{0})
	require.NoError(t, err)
	require.Len(t, down, 10)
}
