package cache_test

import (
	"fmt"

	"github.com/prism-finance/prism/cache"
	"github.com/prism-finance/prism/ledger"
	"github.com/prism-finance/prism/registry"
)

// ExampleCache_Recompute demonstrates the incremental path: updating a
// constant's value in place and recomputing only its downstream nodes
// reproduces what a full Compute would have produced.
func ExampleCache_Recompute() {
	reg := registry.New()
	root, _ := reg.AddConst([]float64{1}, "root")
	inc, _ := reg.AddConst([]float64{1}, "inc")
	sum, _ := reg.AddBinOp(registry.OpAdd, root, inc, "sum")

	led := ledger.New(reg.Len(), 1)
	_ = led.WriteConst(root, []float64{1})
	_ = led.WriteConst(inc, []float64{1})

	c := cache.New()
	if err := c.Compute(reg, led); err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = reg.UpdateConstant(root, []float64{5})
	if err := c.Recompute(reg, led, []registry.NodeId{root}); err != nil {
		fmt.Println("error:", err)
		return
	}

	v, _ := led.ScalarAt(sum)
	fmt.Println(v)
	// Output: 6
}
