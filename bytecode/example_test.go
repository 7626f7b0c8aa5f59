package bytecode_test

import (
	"fmt"

	"github.com/prism-finance/prism/bytecode"
	"github.com/prism-finance/prism/registry"
)

// ExampleCompile demonstrates lowering a small arithmetic graph into a
// flat instruction tape: Const nodes never emit an instruction, so a
// two-node arithmetic chain compiles to exactly one.
func ExampleCompile() {
	r := registry.New()
	a, _ := r.AddConst([]float64{3, 4, 5}, "a")
	b, _ := r.AddConst([]float64{1, 1, 1}, "b")
	_, _ = r.AddBinOp(registry.OpSub, a, b, "c")

	prog, err := bytecode.Compile(r)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(len(prog.Instructions), prog.Instructions[0].Op)
	// Output: 1 Sub
}

// ExampleInstruction_Encode demonstrates the 16-byte wire round-trip.
func ExampleInstruction_Encode() {
	in := bytecode.Instruction{Op: bytecode.OpAdd, Target: 7, P1: 3, P2: 4}
	out := bytecode.DecodeInstruction(in.Encode())
	fmt.Println(out == in)
	// Output: true
}
