// Package validate implements the two-pass static validator of spec.md
// §4.2: an inference pass computing (TemporalKind, Unit) bottom-up over
// topological order, cached per node, followed by a verification pass
// comparing declared metadata against inference and collecting
// diagnostics without stopping at the first one.
//
// Validation never writes ledger values — it is pure with respect to
// numeric state (spec.md §4.2's final bullet).
package validate
