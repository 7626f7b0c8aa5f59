package topology

import "github.com/prism-finance/prism/registry"

// SolverOrder computes the solver-scope dependency order: the same Kahn
// pass as Order, plus one virtual edge per Constraint(lhs,rhs) node
// encountered, per spec.md §4.1's "virtual dependency only for the solver
// subsystem" wording. The edge runs from whichever side of the equality
// is downstream of the other back to the SolverVar it pins: the
// expression a constraint checks a variable against must be evaluated
// before the variable's trial value can be judged to satisfy it, which
// closes a cycle through the variable itself whenever the constraint
// actually constrains something (the common case — spec.md's financing-
// fee example is exactly this shape).
//
// Plain Order never sees this edge (a Constraint node has no forward
// children there), so it stays acyclic for any registry built through the
// public API. SolverOrder is expected to report *CycleDetected for a
// well-formed solver-constraint subgraph — invariant (i) calls this out
// explicitly as an allowed cycle, not a structural defect. It is not used
// to schedule the solver bridge's own evaluation (Solve still drives
// DownstreamFrom(solverVars), iterating trial values rather than
// topologically ordering a cyclic system); SolverOrder exists to let the
// cycle-detection-soundness property (spec.md §8) be exercised and
// verified against a real solver-constraint subgraph instead of only the
// acyclic common case.
func SolverOrder(reg *registry.Registry, opts ...Option) ([]registry.NodeId, error) {
	n := reg.Len()
	indegree, children, err := buildAdjacency(reg)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		id := registry.NodeId(i)
		node, gerr := reg.Get(id)
		if gerr != nil {
			return nil, gerr
		}
		if node.Op != registry.OpConstraint {
			continue
		}
		lhs, rhs := node.Parents[0], node.Parents[1]

		consequence, variable, ok := solverEdge(reg, children, lhs, rhs)
		if !ok {
			continue
		}
		// variable virtually depends on consequence: the expression a
		// constraint checks the variable against must be evaluated
		// before the variable's trial value can be judged against it.
		indegree[variable]++
		children[consequence] = append(children[consequence], variable)
	}

	order, err := kahn(n, indegree, children)
	if err != nil {
		return nil, err
	}

	cfg := resolveConfig(opts)
	if cfg.obs != nil && cfg.obs.OnNodeOrdered != nil {
		for _, id := range order {
			cfg.obs.OnNodeOrdered(id)
		}
	}
	return order, nil
}

// solverEdge decides which of a constraint's two sides is the SolverVar
// being pinned and which is the downstream consequence it is pinned
// against: a SolverVar that is itself a structural ancestor of the other
// side is "the variable", and the other side is "the consequence" (the
// constraint's whole point is to pin the variable's value against a
// downstream expression built from itself).
func solverEdge(reg *registry.Registry, children [][]registry.NodeId, lhs, rhs registry.NodeId) (consequence, variable registry.NodeId, ok bool) {
	lhsIsVar := isSolverVar(reg, lhs)
	rhsIsVar := isSolverVar(reg, rhs)

	if lhsIsVar && reachable(children, lhs, rhs) {
		return rhs, lhs, true
	}
	if rhsIsVar && reachable(children, rhs, lhs) {
		return lhs, rhs, true
	}
	return 0, 0, false
}

func isSolverVar(reg *registry.Registry, id registry.NodeId) bool {
	n, err := reg.Get(id)
	return err == nil && n.Op == registry.OpSolverVar
}

// reachable reports whether to is reachable from from by following
// children (forward) edges — i.e. whether from is a structural ancestor
// of to.
func reachable(children [][]registry.NodeId, from, to registry.NodeId) bool {
	if from == to {
		return false
	}
	visited := map[registry.NodeId]bool{from: true}
	queue := []registry.NodeId{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if child == to {
				return true
			}
			if !visited[child] {
				visited[child] = true
				queue = append(queue, child)
			}
		}
	}
	return false
}

// kahn runs the shared ascending-NodeId-tiebreak Kahn pass over a
// pre-built adjacency, used by both Order and SolverOrder.
func kahn(n int, indegree []int, children [][]registry.NodeId) ([]registry.NodeId, error) {
	frontier := newNodeIDFrontier()
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			frontier.push(registry.NodeId(i))
		}
	}

	order := make([]registry.NodeId, 0, n)
	for frontier.len() > 0 {
		id := frontier.pop()
		order = append(order, id)
		for _, child := range children[id] {
			indegree[child]--
			if indegree[child] == 0 {
				frontier.push(child)
			}
		}
	}

	if len(order) < n {
		residual := make([]registry.NodeId, 0, n-len(order))
		for i := 0; i < n; i++ {
			if indegree[i] > 0 {
				residual = append(residual, registry.NodeId(i))
			}
		}
		return nil, &CycleDetected{Nodes: residual}
	}

	return order, nil
}
