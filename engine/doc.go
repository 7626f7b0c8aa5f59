// Package engine implements the linear bytecode dispatcher of spec.md
// §4.7: a single allocation-free pass over a bytecode.Program's
// instructions, deriving each instruction's row slices from a
// ledger.Ledger and dispatching to package kernel.
//
// Run holds the sole mutable borrow of its Ledger for the duration of the
// call; a Run already in flight on the same Engine is rejected with
// prismerr.ErrReentrantCompute rather than silently interleaved, mirroring
// the teacher lineage's single-writer traversal contract (BFS/DFS's
// non-reentrant Visitor hooks) but enforced with a plain flag instead of a
// mutex, since spec.md §5 makes the caller single-threaded by contract.
package engine
