// Package ledger implements the SoA numerical heap of spec.md §3/§4.5: a
// single contiguous row-major float64 buffer, one row per node, modelLen
// columns wide, plus an independent append-only solver convergence trace.
//
// The flat-buffer-with-bounds-checked-row-offset shape is carried
// directly from the teacher lineage's matrix.Dense (row*cols+col
// addressing); here the "columns" are time steps and every node gets
// exactly one row, addressed by its own NodeId rather than a separate row
// counter.
package ledger
