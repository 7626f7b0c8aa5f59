// Package bytecode lowers an ordered node list into the flat instruction
// tape the engine executes (spec.md §4.4). Row addressing is identical to
// NodeId addressing — a node's ledger row is always its own NodeId — so
// the same Program shape serves both full and partial (dirty-set)
// compiles without remapping.
package bytecode
