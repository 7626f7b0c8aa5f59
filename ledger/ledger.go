package ledger

import (
	"github.com/prism-finance/prism/prismerr"
	"github.com/prism-finance/prism/registry"
)

// Ledger owns one contiguous row-major float64 buffer: rows*modelLen
// elements, row i occupying data[i*modelLen : (i+1)*modelLen]. A row's
// addressing offset equals its NodeId, identical to the teacher lineage's
// Dense.indexOf(row, col) = row*cols+col.
//
// Ledger has no internal locking: spec.md §5 makes compute/solve calls
// single-threaded and non-reentrant, with the Engine holding the sole
// mutable borrow of the Ledger for the call's duration — a narrower
// contract than the teacher's always-RWMutex-guarded Graph, adopted
// deliberately (see DESIGN.md).
type Ledger struct {
	data     []float64
	rows     int
	modelLen int

	trace []prismerr.TraceRecord
}

// New constructs a Ledger sized for rows nodes, modelLen columns each.
func New(rows, modelLen int) *Ledger {
	if modelLen < 1 {
		modelLen = 1
	}
	return &Ledger{
		data:     make([]float64, rows*modelLen),
		rows:     rows,
		modelLen: modelLen,
	}
}

// Rows returns the current row count (node_count).
func (l *Ledger) Rows() int { return l.rows }

// ModelLen returns the time-axis width shared by every row.
func (l *Ledger) ModelLen() int { return l.modelLen }

// Resize grows the ledger to accommodate newRows rows and newModelLen
// columns, preserving existing row contents. If modelLen is unchanged the
// backing slice is simply extended; otherwise every existing row is
// copied into its new, differently-strided position (spec.md §3
// lifecycle, §4.5).
func (l *Ledger) Resize(newRows, newModelLen int) {
	if newModelLen < 1 {
		newModelLen = 1
	}
	if newRows == l.rows && newModelLen == l.modelLen {
		return
	}

	if newModelLen == l.modelLen {
		if newRows > l.rows {
			l.data = append(l.data, make([]float64, (newRows-l.rows)*l.modelLen)...)
		}
		l.rows = newRows
		return
	}

	newData := make([]float64, newRows*newModelLen)
	copyRows := l.rows
	if newRows < copyRows {
		copyRows = newRows
	}
	copyCols := l.modelLen
	if newModelLen < copyCols {
		copyCols = newModelLen
	}
	for row := 0; row < copyRows; row++ {
		src := l.data[row*l.modelLen : row*l.modelLen+copyCols]
		dst := newData[row*newModelLen : row*newModelLen+copyCols]
		copy(dst, src)
	}
	l.data = newData
	l.rows = newRows
	l.modelLen = newModelLen
}

// RowPtr returns the mutable slice backing node's row. The slice aliases
// the Ledger's internal buffer; callers must not retain it past the next
// Resize.
func (l *Ledger) RowPtr(node registry.NodeId) ([]float64, error) {
	i := int(node)
	if i < 0 || i >= l.rows {
		return nil, registry.ErrUnknownNode
	}
	off := i * l.modelLen
	return l.data[off : off+l.modelLen], nil
}

// ScalarAt returns the first element of node's row — the value get_value
// returns for a structurally-scalar node (spec.md §4.5, §9).
func (l *Ledger) ScalarAt(node registry.NodeId) (float64, error) {
	row, err := l.RowPtr(node)
	if err != nil {
		return 0, err
	}
	return row[0], nil
}

// WriteConst bulk-writes values into node's row. A single-element values
// slice is broadcast across every column (a constant held flat over the
// model horizon, e.g. a fixed interest rate); a values slice of exactly
// ModelLen elements is copied verbatim; any other length is a
// DimensionMismatch.
func (l *Ledger) WriteConst(node registry.NodeId, values []float64) error {
	row, err := l.RowPtr(node)
	if err != nil {
		return err
	}
	switch len(values) {
	case 1:
		v := values[0]
		for i := range row {
			row[i] = v
		}
	case l.modelLen:
		copy(row, values)
	default:
		return &prismerr.DimensionMismatch{ExpectedLen: l.modelLen, Got: len(values)}
	}
	return nil
}

// AppendTrace records one solver convergence-history entry.
func (l *Ledger) AppendTrace(rec prismerr.TraceRecord) {
	l.trace = append(l.trace, rec)
}

// ClearTrace empties the solver convergence-history buffer, called at the
// start of each solve (spec.md §4.9).
func (l *Ledger) ClearTrace() {
	l.trace = l.trace[:0]
}

// Trace returns the accumulated solver convergence history since the last
// ClearTrace.
func (l *Ledger) Trace() []prismerr.TraceRecord {
	return append([]prismerr.TraceRecord(nil), l.trace...)
}
