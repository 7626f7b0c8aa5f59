package prism_test

import (
	"fmt"

	prism "github.com/prism-finance/prism"
	"github.com/prism-finance/prism/registry"
)

// Example demonstrates the host-facing facade: build a small arithmetic
// graph, compute it, and read back a value.
func Example() {
	m := prism.New(3)
	a, _ := m.AddConst([]float64{3, 4, 5}, "a")
	b, _ := m.AddConst([]float64{1, 1, 1}, "b")
	c, _ := m.AddBinOp(registry.OpSub, a, b, "c")
	d, _ := m.AddBinOp(registry.OpMul, a, c, "d")

	if err := m.Compute(); err != nil {
		fmt.Println("error:", err)
		return
	}

	v, _ := m.GetValue(d)
	fmt.Println(v)
	// Output: [6 12 20]
}
