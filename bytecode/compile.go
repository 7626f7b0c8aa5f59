package bytecode

import (
	"fmt"

	"github.com/prism-finance/prism/registry"
	"github.com/prism-finance/prism/topology"
)

// Program is the compiled output of spec.md §3/§4.4: a flat instruction
// tape plus the bookkeeping the solver bridge and cache consume.
type Program struct {
	Instructions []Instruction

	// RowCount is the number of ledger rows this program was compiled
	// against — registry.Len() at compile time.
	RowCount int

	// SolverRoots is the ordered list of SolverVar NodeIds encountered.
	SolverRoots []registry.NodeId

	// ConstraintPairs is the ordered list of (lhs, rhs) NodeId pairs from
	// every Constraint node encountered.
	ConstraintPairs [][2]registry.NodeId

	// DirtyMask is nil for a full-graph compile; for a partial compile it
	// is indexed by NodeId and true for every node the program covers.
	DirtyMask []bool
}

var binOpcode = map[registry.Op]Op{
	registry.OpAdd: OpAdd,
	registry.OpSub: OpSub,
	registry.OpMul: OpMul,
	registry.OpDiv: OpDiv,
}

// Compile lowers the full registry into a Program, computing its own
// topological order. It never partially emits a program when the
// registry is structurally invalid — a cycle aborts before any
// instruction is appended (spec.md §7).
func Compile(reg *registry.Registry) (*Program, error) {
	order, err := topology.Order(reg)
	if err != nil {
		return nil, err
	}
	return compile(reg, order, nil)
}

// CompilePartial lowers a caller-supplied (already topologically ordered,
// typically topology.DownstreamFrom) subset of nodes into a partial
// Program for incremental recompilation (spec.md §4.4, §4.8).
func CompilePartial(reg *registry.Registry, dirty []registry.NodeId) (*Program, error) {
	mask := make([]bool, reg.Len())
	for _, id := range dirty {
		mask[id] = true
	}
	return compile(reg, dirty, mask)
}

func compile(reg *registry.Registry, order []registry.NodeId, mask []bool) (*Program, error) {
	prog := &Program{RowCount: reg.Len(), DirtyMask: mask}

	for _, id := range order {
		node, err := reg.Get(id)
		if err != nil {
			return nil, err
		}

		switch node.Op {
		case registry.OpConst:
			// Values land in the ledger at registration/UpdateConstant time;
			// no instruction is ever emitted for a constant.

		case registry.OpSolverVar:
			prog.SolverRoots = append(prog.SolverRoots, id)

		case registry.OpConstraint:
			prog.ConstraintPairs = append(prog.ConstraintPairs, [2]registry.NodeId{node.Parents[0], node.Parents[1]})

		case registry.OpNeg:
			prog.Instructions = append(prog.Instructions, Instruction{
				Op: OpNeg, Target: uint32(id), P1: uint32(node.Parents[0]), P2: NoOperand,
			})

		case registry.OpPrev:
			prog.Instructions = append(prog.Instructions, Instruction{
				Op: OpPrev, Target: uint32(id), P1: uint32(node.Parents[0]), P2: node.PrevLag,
			})

		case registry.OpAdd, registry.OpSub, registry.OpMul, registry.OpDiv:
			op, ok := binOpcode[node.Op]
			if !ok {
				return nil, fmt.Errorf("bytecode: no opcode mapping for %s", node.Op)
			}
			prog.Instructions = append(prog.Instructions, Instruction{
				Op: op, Target: uint32(id), P1: uint32(node.Parents[0]), P2: uint32(node.Parents[1]),
			})

		default:
			return nil, fmt.Errorf("bytecode: unsupported op %s on node %d", node.Op, id)
		}
	}

	return prog, nil
}
