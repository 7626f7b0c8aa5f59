// Package cache implements the incremental recompilation memoization of
// spec.md §4.8: a cached full bytecode.Program keyed by registry.Revision,
// plus a constants-only Recompute path that writes changed values into
// the Ledger and re-runs only the downstream subset, never overwriting
// the cached full program.
//
// The keyed-cache-with-a-single-invalidation-counter shape is carried
// from the teacher lineage's Registry.Revision bookkeeping; this package
// is simply the first consumer of that counter.
package cache
