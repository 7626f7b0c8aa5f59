// Package topology computes evaluation orders over a registry.Registry:
// Kahn's algorithm for the full instruction order (spec.md §4.1), a
// solver-scope variant that additionally honors Constraint virtual edges
// (SolverOrder), and a downstream breadth-first traversal used to build
// the partial/dirty-set program for incremental recompilation.
//
// The package idiom — sentinel errors, a functional Option carrying
// observer callbacks (Order and SolverOrder accept WithObserver, invoking
// OnNodeOrdered as each node is placed) — follows the teacher lineage's
// dfs and bfs packages' OnVisit/OnEnqueue hooks rather than writing to a
// logger. The ordering algorithm itself is Kahn rather than three-color
// DFS, per spec.md §4.1's explicit requirement for an in-degree-based
// ordering with a named residual cycle set.
package topology
