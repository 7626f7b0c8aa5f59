package topology

import (
	"container/heap"

	"github.com/prism-finance/prism/registry"
)

// nodeIdHeap is a min-heap of NodeIds, used to keep the Kahn frontier
// ordered so ties (nodes that become ready in the same pass) break by
// ascending NodeId — spec.md §4.4's determinism requirement.
type nodeIdHeap []registry.NodeId

func (h nodeIdHeap) Len() int            { return len(h) }
func (h nodeIdHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h nodeIdHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeIdHeap) Push(x interface{}) { *h = append(*h, x.(registry.NodeId)) }
func (h *nodeIdHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// nodeIDFrontier wraps nodeIdHeap with push/pop/len methods so Order and
// SolverOrder can share one Kahn driver (kahn, in solver_order.go).
type nodeIDFrontier struct{ h nodeIdHeap }

func newNodeIDFrontier() *nodeIDFrontier {
	f := &nodeIDFrontier{h: nodeIdHeap{}}
	heap.Init(&f.h)
	return f
}

func (f *nodeIDFrontier) push(id registry.NodeId) { heap.Push(&f.h, id) }
func (f *nodeIDFrontier) pop() registry.NodeId    { return heap.Pop(&f.h).(registry.NodeId) }
func (f *nodeIDFrontier) len() int                { return f.h.Len() }

// buildAdjacency scans the full registry once and returns, for every
// node, its in-degree (parent count) and its forward children list.
// O(V+E).
func buildAdjacency(reg *registry.Registry) (indegree []int, children [][]registry.NodeId, err error) {
	n := reg.Len()
	indegree = make([]int, n)
	children = make([][]registry.NodeId, n)

	for i := 0; i < n; i++ {
		id := registry.NodeId(i)
		parents, perr := reg.ParentsOf(id)
		if perr != nil {
			return nil, nil, perr
		}
		indegree[i] = len(parents)
		for _, p := range parents {
			children[p] = append(children[p], id)
		}
	}
	return indegree, children, nil
}

// Observer receives progress callbacks during ordering, mirroring the
// teacher lineage's OnVisit/OnEnqueue traversal hooks (bfs.go, dfs.go)
// rather than writing to a logger — the same ambient-stack convention
// validate.Observer follows.
type Observer struct {
	// OnNodeOrdered is invoked once per node, in emission order, as Order
	// or SolverOrder place it into the result.
	OnNodeOrdered func(registry.NodeId)
}

// Option configures an ordering call.
type Option func(*orderConfig)

type orderConfig struct {
	obs *Observer
}

// WithObserver attaches obs's callbacks to the ordering call.
func WithObserver(obs *Observer) Option {
	return func(c *orderConfig) { c.obs = obs }
}

func resolveConfig(opts []Option) orderConfig {
	var cfg orderConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Order computes the full Kahn topological ordering of every node in reg.
// Ties among simultaneously-ready nodes break by ascending NodeId, making
// the ordering deterministic across repeated calls on the same registry
// (spec.md §8's topology-determinism property). Returns *CycleDetected
// naming the residual (never-ready) node set if reg is not acyclic.
func Order(reg *registry.Registry, opts ...Option) ([]registry.NodeId, error) {
	n := reg.Len()
	indegree, children, err := buildAdjacency(reg)
	if err != nil {
		return nil, err
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
