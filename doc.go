// Package prism is the host-facing facade of a verifiable calculation
// engine for financial modeling (spec.md §6): a thin wrapper over
// registry, validate, bytecode, ledger, engine, cache, and solver that
// exposes exactly the operation set a DSL or foreign-function layer would
// call — AddConst/AddBinOp/AddUnop/AddPrev/AddSolverVar/MustEqual,
// DeclareType, UpdateConstant, Compute/Recompute/Solve, GetValue, and
// Validate — behind the single non-reentrant exclusive borrow spec.md §5
// requires.
//
// Users build a computation graph of constants, derived arithmetic and
// temporal-lookback expressions, and solver variables constrained by
// equalities; Model compiles the graph to a flat instruction tape,
// executes it over a Structure-of-Arrays ledger with SIMD-style kernels,
// resolves circular constraints via an internal Newton solver bridging
// the IPOPT callback shape, and statically validates temporal-kind and
// physical-unit algebra before any instruction runs.
package prism
