package topology_test

import (
	"testing"

	"github.com/prism-finance/prism/registry"
	"github.com/prism-finance/prism/topology"
	"github.com/stretchr/testify/require"
)

// buildFinancingFeeShape mirrors spec.md §8's canonical financing-fee
// system: cost and rate are constants, fee is a free SolverVar, total
// funds is cost+fee, fee_check is rate*total_funds, and the constraint
// pins fee == fee_check — a downstream consequence of fee itself.
func buildFinancingFeeShape(t *testing.T) (r *registry.Registry, fee registry.NodeId) {
	t.Helper()
	r = registry.New()
	cost, err := r.AddConst([]float64{1000}, "cost")
	require.NoError(t, err)
	rate, err := r.AddConst([]float64{0.02}, "rate")
	require.NoError(t, err)
	fee, err = r.AddSolverVar("fee")
	require.NoError(t, err)
	totalFunds, err := r.AddBinOp(registry.OpAdd, cost, fee, "total_funds")
	require.NoError(t, err)
	feeCheck, err := r.AddBinOp(registry.OpMul, rate, totalFunds, "fee_check")
	require.NoError(t, err)
	require.NoError(t, r.MustEqual(fee, feeCheck))
	return r, fee
}

// TestOrderIgnoresConstraintEdgeAndStaysAcyclic proves the property at
// spec.md §8: compute's ordinary Order sees no cycle in a solver-
// constrained graph, since a Constraint node's virtual edge only exists
// for SolverOrder.
func TestOrderIgnoresConstraintEdgeAndStaysAcyclic(t *testing.T) {
	r, _ := buildFinancingFeeShape(t)
	order, err := topology.Order(r)
	require.NoError(t, err)
	require.Len(t, order, r.Len())
}

// TestSolverOrderDetectsConstraintCycle proves spec.md §8's cycle-
// detection-soundness property is actually exercisable: a well-formed
// solver-constraint subgraph, built entirely through the public Registry
// API, makes SolverOrder report *topology.CycleDetected — invariant (i)'s
// explicitly allowed cycle.
func TestSolverOrderDetectsConstraintCycle(t *testing.T) {
	r, fee := buildFinancingFeeShape(t)

	_, err := topology.SolverOrder(r)
	require.Error(t, err)

	var cyc *topology.CycleDetected
	require.ErrorAs(t, err, &cyc)
	require.Contains(t, cyc.Nodes, fee)
}

// TestSolverOrderAcyclicWithoutConstraint confirms SolverOrder only
// detects a cycle once a constraint actually ties a variable back to its
// own downstream consequence — an unconstrained SolverVar orders fine.
func TestSolverOrderAcyclicWithoutConstraint(t *testing.T) {
	r := registry.New()
	_, err := r.AddSolverVar("free")
	require.NoError(t, err)

	order, err := topology.SolverOrder(r)
	require.NoError(t, err)
	require.Len(t, order, r.Len())
}

// TestOrderObserverReceivesEveryNodeInEmissionOrder covers the
// WithObserver ambient hook SPEC_FULL.md documents.
func TestOrderObserverReceivesEveryNodeInEmissionOrder(t *testing.T) {
	r := buildChain(t, 5)

	var seen []registry.NodeId
	order, err := topology.Order(r, topology.WithObserver(&topology.Observer{
		OnNodeOrdered: func(id registry.NodeId) { seen = append(seen, id) },
	}))
	require.NoError(t, err)
	require.Equal(t, order, seen)
}
