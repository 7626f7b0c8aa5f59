package topology

import (
	"sort"

	"github.com/prism-finance/prism/registry"
)

// DownstreamFrom returns the transitive set of nodes whose ancestry
// intersects seeds — i.e. every seed plus every node reachable by
// following child edges forward from a seed — in topological order
// (spec.md §4.1). This is the set a partial/incremental compile must
// recompute after seeds' constant values change.
//
// Complexity: O(V+E), one BFS over the forward adjacency built from the
// full registry.
func DownstreamFrom(reg *registry.Registry, seeds []registry.NodeId) ([]registry.NodeId, error) {
	n := reg.Len()
	_, children, err := buildAdjacency(reg)
	if err != nil {
		return nil, err
	}

	visited := make(map[registry.NodeId]bool, n)
	queue := make([]registry.NodeId, 0, len(seeds))
	for _, s := range seeds {
		if int(s) >= n {
			return nil, registry.ErrUnknownNode
		}
		if !visited[s] {
			visited[s] = true
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if !visited[child] {
				visited[child] = true
				queue = append(queue, child)
			}
		}
	}

	out := make([]registry.NodeId, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	// Parent ids are always strictly smaller than child ids (spec.md §3
	// invariant ii), so ascending-NodeId order is itself a valid
	// topological order for any subset of the graph.
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}
