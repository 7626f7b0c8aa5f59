package topology

import (
	"fmt"

	"github.com/prism-finance/prism/registry"
)

// CycleDetected is returned by Order or SolverOrder when fewer nodes were
// emitted than exist in the registry. Nodes holds the residual set: every
// node whose in-degree never reached zero, i.e. the nodes participating
// in (or downstream of) the cycle.
//
// Order itself cannot observe this through the public Registry API: every
// non-constraint insertion path checks parent ids are strictly smaller
// than self (spec.md §3 invariant ii), so the plain parent-edge graph is
// always acyclic. SolverOrder is where it is actually reachable — its
// virtual constraint edge (topology.SolverOrder) closes a genuine cycle
// for any well-formed solver-constraint subgraph, which invariant (i)
// explicitly allows. Order keeps performing the full Kahn pass regardless
// (not just trusting the insertion-time check), since a partial compile's
// caller-supplied node subset is not re-validated against it.
type CycleDetected struct {
	Nodes []registry.NodeId
}

func (e *CycleDetected) Error() string {
	return fmt.Sprintf("topology: cycle detected among %d node(s): %v", len(e.Nodes), e.Nodes)
}
