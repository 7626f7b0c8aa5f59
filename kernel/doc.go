// Package kernel implements the per-opcode SIMD-style numeric primitives
// of spec.md §4.6: lane-width-4 chunked loops with unaligned load/store
// semantics (ordinary Go slice indexing) and a scalar tail, collapsing to
// a single scalar op when modelLen==1.
//
// The private-micro-kernel-behind-a-public-dispatcher shape is carried
// from the teacher lineage's matrix/ops_elementwise.go (unexported ew*
// loops, thin public wrappers): every lane* function here is unexported
// and reached only through Dispatch/Neg/Prev.
package kernel
