package kernel_test

import (
	"fmt"

	"github.com/prism-finance/prism/bytecode"
	"github.com/prism-finance/prism/kernel"
)

// ExampleDispatch demonstrates the lane-width-4 vectorized add kernel
// over a seven-element model length (a 4-wide chunk plus a scalar tail).
func ExampleDispatch() {
	a := []float64{1, 2, 3, 4, 5, 6, 7}
	b := []float64{10, 10, 10, 10, 10, 10, 10}
	target := make([]float64, 7)

	kernel.Dispatch(bytecode.OpAdd, target, a, b)
	fmt.Println(target)
	// Output: [11 12 13 14 15 16 17]
}

// ExamplePrev demonstrates the temporal-lookback kernel: target[t] =
// a[t-k] for t>=k, zero otherwise.
func ExamplePrev() {
	a := []float64{1, 2, 3, 4}
	target := make([]float64, 4)

	kernel.Prev(target, a, 1)
	fmt.Println(target)
	// Output: [0 1 2 3]
}
