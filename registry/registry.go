package registry

import (
	"fmt"
	"sync"
)

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithCapacity pre-sizes the node arena to avoid reallocation when the
// approximate node count is known ahead of time.
func WithCapacity(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.nodes = make([]Node, 0, n)
		}
	}
}

// Registry is the append-only computation graph arena. All mutation is
// guarded by mu; Revision is bumped on every structural change (add node,
// mutate parents via a new node, declare metadata, add constraint) and is
// the compilation cache's invalidation key. UpdateConstant does NOT bump
// Revision — only ConstEpoch — per spec.md §4.8.
type Registry struct {
	mu    sync.RWMutex
	nodes []Node

	// Revision increments on structural mutation; the cache's key.
	Revision uint64

	// ConstEpoch increments on UpdateConstant. The compilation cache does
	// not read it, so a constant update never invalidates the compiled
	// program.
	ConstEpoch uint64

	solverVars []NodeId
	// constraints holds (lhs, rhs) pairs registered by MustEqual.
	constraints [][2]NodeId
}

// New constructs an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{nodes: make([]Node, 0, 16)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Len returns the current node count.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Get returns a copy of the Node at id, or ErrUnknownNode if id is out of
// range. Callers needing to observe cached inference/scalar fields should
// use the dedicated accessors below instead, which avoid the copy.
func (r *Registry) Get(id NodeId) (Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.nodes) {
		return Node{}, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return r.nodes[id], nil
}

// node returns a pointer to the live node for internal, already-locked
// callers. Not safe to call without holding r.mu.
func (r *Registry) node(id NodeId) (*Node, error) {
	if int(id) >= len(r.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return &r.nodes[id], nil
}

// SolverVars returns the ordered list of SolverVar NodeIds registered so
// far, in registration order (the decision-vector order the solver bridge
// consumes).
func (r *Registry) SolverVars() []NodeId {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]NodeId, len(r.solverVars))
	copy(out, r.solverVars)
	return out
}

// ConstraintPairs returns the ordered list of (lhs, rhs) NodeId pairs
// registered by MustEqual, in registration order.
func (r *Registry) ConstraintPairs() [][2]NodeId {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([][2]NodeId, len(r.constraints))
	copy(out, r.constraints)
	return out
}

// checkParentOrder validates the strict-ordering invariant: every parent
// id must be strictly less than the id about to be assigned.
func (r *Registry) checkParentOrder(selfID NodeId, parents ...NodeId) error {
	for _, p := range parents {
		if p >= selfID {
			return fmt.Errorf("%w: parent %d >= self %d", ErrParentOrder, p, selfID)
		}
		if int(p) >= len(r.nodes) {
			return fmt.Errorf("%w: %d", ErrUnknownNode, p)
		}
	}
	return nil
}

// scalarStructuralOf computes the scalar-structural property for a node
// about to be inserted, from its already-inserted parents (spec.md §3).
func scalarStructuralOf(n Node, parents []*Node) bool {
	if n.Op == OpConst {
		return len(n.ConstantPayload) == 1
	}
	if n.Op == OpPrev {
		return false
	}
	for _, p := range parents {
		scalar, _ := p.ScalarStructural()
		if !scalar {
			return false
		}
	}
	return true
}

// append inserts n, assigns it the next NodeId, caches its scalar-structural
// property, and bumps Revision. Must be called with mu held.
func (r *Registry) append(n Node, parentPtrs ...*Node) NodeId {
	id := NodeId(len(r.nodes))
	n.setScalarStructural(scalarStructuralOf(n, parentPtrs))
	r.nodes = append(r.nodes, n)
	r.Revision++
	return id
}

// AddConst appends a constant node carrying values as its time series (or
// a single scalar when len(values)==1) and returns its NodeId.
func (r *Registry) AddConst(values []float64, name string) (NodeId, error) {
	if len(values) == 0 {
		return 0, ErrEmptyConstant
	}
	payload := make([]float64, len(values))
	copy(payload, values)

	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.append(Node{Op: OpConst, ConstantPayload: payload, Name: name})
	return id, nil
}

// AddBinOp appends a binary arithmetic node (Add/Sub/Mul/Div) over parents
// p1, p2 and returns its NodeId.
func (r *Registry) AddBinOp(op Op, p1, p2 NodeId, name string) (NodeId, error) {
	if op.Arity() != 2 {
		return 0, fmt.Errorf("%w: %s", ErrWrongArity, op)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	selfID := NodeId(len(r.nodes))
	if err := r.checkParentOrder(selfID, p1, p2); err != nil {
		return 0, err
	}
	n1, _ := r.node(p1)
	n2, _ := r.node(p2)
	id := r.append(Node{Op: op, Parents: [2]NodeId{p1, p2}, Name: name}, n1, n2)
	return id, nil
}

// AddUnop appends a unary node (currently only Neg) over parent p.
func (r *Registry) AddUnop(op Op, p NodeId, name string) (NodeId, error) {
	if op.Arity() != 1 || op == OpPrev {
		return 0, fmt.Errorf("%w: %s", ErrWrongArity, op)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	selfID := NodeId(len(r.nodes))
	if err := r.checkParentOrder(selfID, p); err != nil {
		return 0, err
	}
	parent, _ := r.node(p)
	id := r.append(Node{Op: op, Parents: [2]NodeId{p}, Name: name}, parent)
	return id, nil
}

// AddPrev appends a temporal-lookback node: target[t] = a[t-k] for t>=k,
// 0.0 otherwise. k must be >= 1.
func (r *Registry) AddPrev(a NodeId, k uint32, name string) (NodeId, error) {
	if k < 1 {
		return 0, fmt.Errorf("registry: Prev lag must be >= 1, got %d", k)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	selfID := NodeId(len(r.nodes))
	if err := r.checkParentOrder(selfID, a); err != nil {
		return 0, err
	}
	parent, _ := r.node(a)
	id := r.append(Node{Op: OpPrev, Parents: [2]NodeId{a}, PrevLag: k, Name: name}, parent)
	return id, nil
}

// AddSolverVar appends a free variable resolved by the external solver.
func (r *Registry) AddSolverVar(name string) (NodeId, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.append(Node{Op: OpSolverVar, Name: name})
	r.solverVars = append(r.solverVars, id)
	return id, nil
}

// MustEqual registers an equality constraint lhs == rhs, consumed by the
// solver bridge. It appends a real Constraint node whose parents are lhs
// and rhs — the virtual dependency edge of spec.md §4.1 made concrete, so
// the bytecode compiler (not just this Registry's own bookkeeping)
// populates Program.ConstraintPairs, and so topology.SolverOrder can
// discover the cycle a well-formed solver-constraint subgraph is expected
// to contain (invariant i). The edge is still ignored by plain
// topology.Order outside solver scope: a Constraint node has no children,
// so its presence never blocks or reorders anything else.
func (r *Registry) MustEqual(lhs, rhs NodeId) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	selfID := NodeId(len(r.nodes))
	if err := r.checkParentOrder(selfID, lhs, rhs); err != nil {
		return err
	}
	n1, _ := r.node(lhs)
	n2, _ := r.node(rhs)
	r.append(Node{Op: OpConstraint, Parents: [2]NodeId{lhs, rhs}}, n1, n2)
	r.constraints = append(r.constraints, [2]NodeId{lhs, rhs})
	return nil
}

// DeclareType records a user assertion about a node's TemporalKind and/or
// canonical unit string, checked (never overridden) at validation time
// (spec.md §4.2, §9 open-question resolution).
func (r *Registry) DeclareType(id NodeId, kind *TemporalKind, unit *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.node(id)
	if err != nil {
		return err
	}
	if kind != nil {
		n.DeclaredKind = *kind
		n.HasDeclaredKind = true
	}
	if unit != nil {
		n.DeclaredUnit = *unit
		n.HasDeclaredUnit = true
	}
	r.Revision++
	return nil
}

// UpdateConstant rewrites a Const node's payload in place, preserving its
// NodeId. This bumps ConstEpoch, not Revision: the compiled Program stays
// valid, only the Ledger row needs rewriting (spec.md §3, §4.8).
func (r *Registry) UpdateConstant(id NodeId, values []float64) error {
	if len(values) == 0 {
		return ErrEmptyConstant
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.node(id)
	if err != nil {
		return err
	}
	if n.Op != OpConst {
		return fmt.Errorf("registry: node %d is not Const", id)
	}
	payload := make([]float64, len(values))
	copy(payload, values)
	n.ConstantPayload = payload
	r.ConstEpoch++
	return nil
}

// InferredKind returns the cached inference result for id, written by a
// prior call to SetInferred.
func (r *Registry) InferredKind(id NodeId) (TemporalKind, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, err := r.node(id)
	if err != nil {
		return 0, false, err
	}
	k, ok := n.InferredKind()
	return k, ok, nil
}

// InferredUnit returns the cached inferred canonical unit string for id.
func (r *Registry) InferredUnit(id NodeId) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, err := r.node(id)
	if err != nil {
		return "", err
	}
	return n.InferredUnit(), nil
}

// SetInferred caches the validator's inference result for id.
func (r *Registry) SetInferred(id NodeId, kind TemporalKind, unit string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.node(id)
	if err != nil {
		return err
	}
	n.SetInferred(kind, unit)
	return nil
}

// IsScalarStructural returns the cached scalar-structural property for id
// (spec.md §3), computed at insertion time.
func (r *Registry) IsScalarStructural(id NodeId) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, err := r.node(id)
	if err != nil {
		return false, err
	}
	scalar, _ := n.ScalarStructural()
	return scalar, nil
}

// ParentsOf returns the live parent NodeIds for id, truncated to the op's
// arity.
func (r *Registry) ParentsOf(id NodeId) ([]NodeId, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, err := r.node(id)
	if err != nil {
		return nil, err
	}
	arity := n.Op.Arity()
	if arity <= 0 {
		return nil, nil
	}
	return append([]NodeId(nil), n.Parents[:arity]...), nil
}
