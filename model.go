package prism

import (
	"sync/atomic"

	"github.com/prism-finance/prism/bytecode"
	"github.com/prism-finance/prism/cache"
	"github.com/prism-finance/prism/ledger"
	"github.com/prism-finance/prism/prismerr"
	"github.com/prism-finance/prism/registry"
	"github.com/prism-finance/prism/solver"
	"github.com/prism-finance/prism/validate"
)

// Model is the single entry point a host wraps: it owns the Registry, the
// Ledger, and the compilation Cache, and enforces the non-reentrant
// exclusive borrow spec.md §5 requires across every public method, not
// just Compute/Solve.
type Model struct {
	busy     atomic.Bool
	modelLen int

	reg   *registry.Registry
	led   *ledger.Ledger
	cache *cache.Cache
}

// New constructs an empty Model whose ledger rows are modelLen columns
// wide — the time axis shared by every node in the graph.
func New(modelLen int) *Model {
	return &Model{
		modelLen: modelLen,
		reg:      registry.New(),
		led:      ledger.New(0, modelLen),
		cache:    cache.New(),
	}
}

// acquire implements the single non-reentrant exclusive borrow: it
// returns a release func on success, or ErrReentrantCompute if a call is
// already in flight on this Model.
func (m *Model) acquire() (func(), error) {
	if !m.busy.CompareAndSwap(false, true) {
		return nil, prismerr.ErrReentrantCompute
	}
	return func() { m.busy.Store(false) }, nil
}

func (m *Model) growLedger() {
	if m.reg.Len() > m.led.Rows() {
		m.led.Resize(m.reg.Len(), m.modelLen)
	}
}

// AddConst appends a constant node and writes its initial values into the
// ledger.
func (m *Model) AddConst(values []float64, name string) (registry.NodeId, error) {
	release, err := m.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	id, err := m.reg.AddConst(values, name)
	if err != nil {
		return 0, err
	}
	m.growLedger()
	if err := m.led.WriteConst(id, values); err != nil {
		return 0, err
	}
	return id, nil
}

// AddBinOp appends a binary arithmetic node.
func (m *Model) AddBinOp(op registry.Op, p1, p2 registry.NodeId, name string) (registry.NodeId, error) {
	release, err := m.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	id, err := m.reg.AddBinOp(op, p1, p2, name)
	if err != nil {
		return 0, err
	}
	m.growLedger()
	return id, nil
}

// AddUnop appends a unary node (currently only Neg).
func (m *Model) AddUnop(op registry.Op, p registry.NodeId, name string) (registry.NodeId, error) {
	release, err := m.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	id, err := m.reg.AddUnop(op, p, name)
	if err != nil {
		return 0, err
	}
	m.growLedger()
	return id, nil
}

// AddPrev appends a temporal-lookback node.
func (m *Model) AddPrev(a registry.NodeId, k uint32, name string) (registry.NodeId, error) {
	release, err := m.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	id, err := m.reg.AddPrev(a, k, name)
	if err != nil {
		return 0, err
	}
	m.growLedger()
	return id, nil
}

// AddSolverVar appends a free variable resolved by Solve.
func (m *Model) AddSolverVar(name string) (registry.NodeId, error) {
	release, err := m.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	id, err := m.reg.AddSolverVar(name)
	if err != nil {
		return 0, err
	}
	m.growLedger()
	return id, nil
}

// MustEqual registers an equality constraint consumed by Solve.
func (m *Model) MustEqual(lhs, rhs registry.NodeId) error {
	release, err := m.acquire()
	if err != nil {
		return err
	}
	defer release()

	return m.reg.MustEqual(lhs, rhs)
}

// DeclareType records a user assertion about a node's TemporalKind and/or
// canonical unit, checked (never overridden) at Validate time.
func (m *Model) DeclareType(id registry.NodeId, kind *registry.TemporalKind, unit *string) error {
	release, err := m.acquire()
	if err != nil {
		return err
	}
	defer release()

	return m.reg.DeclareType(id, kind, unit)
}

// UpdateConstant rewrites a Const node's payload in place and its ledger
// row, preserving the node's cached compiled program (spec.md §4.8).
func (m *Model) UpdateConstant(id registry.NodeId, values []float64) error {
	release, err := m.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := m.reg.UpdateConstant(id, values); err != nil {
		return err
	}
	return m.led.WriteConst(id, values)
}

// Compute validates the full graph and, if clean, runs the cached (or
// freshly compiled) full program. It refuses to run if Validate reports
// any diagnostics.
func (m *Model) Compute() error {
	release, err := m.acquire()
	if err != nil {
		return err
	}
	defer release()

	m.growLedger()
	diags, verr := validate.Validate(m.reg, nil)
	if verr != nil {
		return verr
	}
	if len(diags) > 0 {
		return validate.Errors(diags)
	}
	return m.cache.Compute(m.reg, m.led)
}

// Recompute runs the constants-only incremental path for changed, which
// must name Const nodes whose payload was already rewritten via
// UpdateConstant.
func (m *Model) Recompute(changed []registry.NodeId) error {
	release, err := m.acquire()
	if err != nil {
		return err
	}
	defer release()

	m.growLedger()
	return m.cache.Recompute(m.reg, m.led, changed)
}

// Solve drives the constraint subsystem to convergence and writes the
// solution into the ledger.
func (m *Model) Solve(opts ...solver.Option) error {
	release, err := m.acquire()
	if err != nil {
		return err
	}
	defer release()

	m.growLedger()
	return solver.Solve(m.reg, m.led, opts...)
}

// GetValue returns a node's scalar value if it is structurally scalar, or
// a copy of its full time-series row otherwise.
func (m *Model) GetValue(id registry.NodeId) (any, error) {
	release, err := m.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	scalar, err := m.reg.IsScalarStructural(id)
	if err != nil {
		return nil, err
	}
	if scalar {
		return m.led.ScalarAt(id)
	}
	row, err := m.led.RowPtr(id)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), row...), nil
}

// Validate runs the two-pass validator without executing any
// instruction.
func (m *Model) Validate() ([]validate.ValidationError, error) {
	release, err := m.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	return validate.Validate(m.reg, nil)
}

// Program exposes the currently cached compiled program, or nil if
// Compute has never run — used by tooling that wants to inspect the
// instruction tape without forcing a recompile.
func (m *Model) Program() *bytecode.Program {
	return m.cache.Program()
}
