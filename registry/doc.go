// Package registry holds the append-only computation graph: a dense,
// stably-addressed arena of Nodes referenced by NodeId, plus the
// TemporalKind algebra consulted by the validator.
//
// Nodes are never removed and a NodeId is never reused. Parent references
// are NodeIds, never pointers — this mirrors the teacher lineage's
// adjacency-list graph arena (vertices addressed by ID, edges as ID pairs)
// and lets the Ledger share the same indexing scheme as the graph itself.
//
// All mutation is guarded by a single sync.RWMutex. Structural mutation
// (AddX, MustEqual, DeclareType) bumps Revision, which the compilation
// cache uses as its invalidation key; UpdateConstant bumps ConstEpoch
// instead and leaves Revision unchanged.
package registry
