package engine

import (
	"sync/atomic"

	"github.com/prism-finance/prism/bytecode"
	"github.com/prism-finance/prism/kernel"
	"github.com/prism-finance/prism/ledger"
	"github.com/prism-finance/prism/prismerr"
	"github.com/prism-finance/prism/registry"
)

// Engine dispatches a compiled Program against a Ledger. The zero value
// is ready to use.
type Engine struct {
	running atomic.Bool
}

// New constructs a ready-to-use Engine.
func New() *Engine {
	return &Engine{}
}

// Run executes every instruction in prog, in order, reading and writing
// rows of led. It returns prismerr.ErrReentrantCompute if a Run is already
// in flight on this Engine.
func (e *Engine) Run(prog *bytecode.Program, led *ledger.Ledger) error {
	if !e.running.CompareAndSwap(false, true) {
		return prismerr.ErrReentrantCompute
	}
	defer e.running.Store(false)

	for _, in := range prog.Instructions {
		target, err := led.RowPtr(registry.NodeId(in.Target))
		if err != nil {
			return err
		}

		switch in.Op {
		case bytecode.OpNeg:
			a, err := led.RowPtr(registry.NodeId(in.P1))
			if err != nil {
				return err
			}
			kernel.Neg(target, a)

		case bytecode.OpPrev:
			a, err := led.RowPtr(registry.NodeId(in.P1))
			if err != nil {
				return err
			}
			kernel.Prev(target, a, in.P2)

		default:
			a, err := led.RowPtr(registry.NodeId(in.P1))
			if err != nil {
				return err
			}
			b, err := led.RowPtr(registry.NodeId(in.P2))
			if err != nil {
				return err
			}
			kernel.Dispatch(in.Op, target, a, b)
		}
	}

	return nil
}
