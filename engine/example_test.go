package engine_test

import (
	"fmt"

	"github.com/prism-finance/prism/bytecode"
	"github.com/prism-finance/prism/engine"
	"github.com/prism-finance/prism/ledger"
	"github.com/prism-finance/prism/registry"
)

// ExampleEngine_Run demonstrates compiling and running a tiny add-then-
// negate chain over the ledger.
func ExampleEngine_Run() {
	r := registry.New()
	a, _ := r.AddConst([]float64{1, 2, 3}, "a")
	b, _ := r.AddConst([]float64{10, 10, 10}, "b")
	sum, _ := r.AddBinOp(registry.OpAdd, a, b, "sum")
	neg, _ := r.AddUnop(registry.OpNeg, sum, "negSum")

	led := ledger.New(r.Len(), 3)
	_ = led.WriteConst(a, []float64{1, 2, 3})
	_ = led.WriteConst(b, []float64{10, 10, 10})

	prog, err := bytecode.Compile(r)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := engine.New().Run(prog, led); err != nil {
		fmt.Println("error:", err)
		return
	}

	row, _ := led.RowPtr(neg)
	fmt.Println(row)
	// Output: [-11 -12 -13]
}
