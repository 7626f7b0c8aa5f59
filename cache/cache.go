package cache

import (
	"fmt"

	"github.com/prism-finance/prism/bytecode"
	"github.com/prism-finance/prism/engine"
	"github.com/prism-finance/prism/ledger"
	"github.com/prism-finance/prism/registry"
	"github.com/prism-finance/prism/topology"
)

// Cache holds one full compiled Program keyed by the registry.Revision it
// was compiled against. Compute recompiles only on revision mismatch;
// Recompute never touches the cached full program, since a constant-only
// change (registry.ConstEpoch) leaves it valid (spec.md §3, §4.8).
type Cache struct {
	program  *bytecode.Program
	revision uint64
	eng      *engine.Engine
}

// New constructs an empty Cache, ready to compile on first Compute.
func New() *Cache {
	return &Cache{eng: engine.New()}
}

// Program returns the currently cached full Program, or nil if Compute
// has never run.
func (c *Cache) Program() *bytecode.Program {
	return c.program
}

// Compute runs the full program over led, recompiling from reg first if
// no program is cached or reg's Revision has advanced since the last
// compile.
func (c *Cache) Compute(reg *registry.Registry, led *ledger.Ledger) error {
	if c.program == nil || c.revision != reg.Revision {
		prog, err := bytecode.Compile(reg)
		if err != nil {
			return err
		}
		c.program = prog
		c.revision = reg.Revision
	}
	return c.eng.Run(c.program, led)
}

// Recompute handles a constants-only change: it rewrites changed's Const
// rows from reg's current payloads, partially compiles and runs only the
// nodes downstream of changed, and leaves the cached full program
// untouched (spec.md §4.8 exact wording — Recompute never overwrites the
// cached full program).
func (c *Cache) Recompute(reg *registry.Registry, led *ledger.Ledger, changed []registry.NodeId) error {
	for _, id := range changed {
		node, err := reg.Get(id)
		if err != nil {
			return err
		}
		if node.Op != registry.OpConst {
			return fmt.Errorf("cache: node %d is not Const, cannot Recompute from it", id)
		}
		if err := led.WriteConst(id, node.ConstantPayload); err != nil {
			return err
		}
	}

	downstream, err := topology.DownstreamFrom(reg, changed)
	if err != nil {
		return err
	}
	partial, err := bytecode.CompilePartial(reg, downstream)
	if err != nil {
		return err
	}
	return c.eng.Run(partial, led)
}
