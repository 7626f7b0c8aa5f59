package solver

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prism-finance/prism/bytecode"
	"github.com/prism-finance/prism/engine"
	"github.com/prism-finance/prism/ledger"
	"github.com/prism-finance/prism/prismerr"
	"github.com/prism-finance/prism/registry"
	"github.com/prism-finance/prism/topology"
	"gonum.org/v1/gonum/mat"
)

// ErrSystemNotSquare indicates the number of SolverVar nodes does not
// match the number of registered constraints, so the Jacobian cannot be
// inverted.
var ErrSystemNotSquare = errors.New("solver: constraint count must equal solver-variable count")

// Options configures a Solve call. The zero value of Options is invalid;
// Solve starts from defaults (MaxIter 50, Tol 1e-8) and applies the With*
// options over them.
type Options struct {
	MaxIter      int
	Tol          float64
	Timeout      time.Duration
	InitialGuess map[registry.NodeId]float64
}

// Option configures Options.
type Option func(*Options)

// WithMaxIter overrides the default outer-iteration budget.
func WithMaxIter(n int) Option {
	return func(o *Options) { o.MaxIter = n }
}

// WithTolerance overrides the default infinity-norm residual tolerance.
func WithTolerance(tol float64) Option {
	return func(o *Options) { o.Tol = tol }
}

// WithTimeout bounds the wall-clock time Solve may spend iterating.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithInitialGuess seeds one or more SolverVar nodes away from the
// default initial guess of 0.0.
func WithInitialGuess(guess map[registry.NodeId]float64) Option {
	return func(o *Options) { o.InitialGuess = guess }
}

func defaultOptions() Options {
	return Options{MaxIter: 50, Tol: 1e-8}
}

// Callbacks is the evaluator shape spec.md §6 names for the external NLP
// library: EvalF (objective), EvalG (constraint residuals), EvalGradF,
// EvalJacG, and an optional EvalH for solvers with a Hessian path. Solve
// builds one internally and drives it with a damped Newton iteration
// rather than handing it to an external library, since no Go IPOPT
// binding exists in the retrieval pack to wrap (DESIGN.md).
type Callbacks struct {
	EvalF     func(x []float64) float64
	EvalG     func(x, g []float64)
	EvalGradF func(x, grad []float64)
	EvalJacG  func(x []float64) *mat.Dense
	EvalH     func(x []float64) *mat.Dense // optional; Solve leaves it nil and never calls it
}

// Solve drives the registry's constraint subsystem to convergence: it
// iterates a trial decision vector over the ordered SolverVar nodes,
// writing each trial into the ledger and running the engine over
// topology.DownstreamFrom(solverVars) to evaluate residuals, until every
// constraint's residual is within tolerance or the iteration/time budget
// is exhausted.
func Solve(reg *registry.Registry, led *ledger.Ledger, opts ...Option) error {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	vars := reg.SolverVars()
	if len(vars) == 0 {
		return nil
	}

	downstream, err := topology.DownstreamFrom(reg, vars)
	if err != nil {
		return err
	}
	prog, err := bytecode.CompilePartial(reg, downstream)
	if err != nil {
		return err
	}

	// pairs comes from the compiled Program's own ConstraintPairs, walked
	// from real Constraint nodes during CompilePartial (spec.md §3/§4.4)
	// — not read separately from the registry's bookkeeping.
	pairs := prog.ConstraintPairs
	if len(vars) != len(pairs) {
		return fmt.Errorf("%w: %d variables, %d constraints", ErrSystemNotSquare, len(vars), len(pairs))
	}
	n := len(vars)

	eng := engine.New()
	led.ClearTrace()

	var evalErr error
	evalG := func(dst, x []float64) {
		for i, v := range vars {
			if werr := led.WriteConst(v, []float64{x[i]}); werr != nil && evalErr == nil {
				evalErr = werr
				return
			}
		}
		if rerr := eng.Run(prog, led); rerr != nil && evalErr == nil {
			evalErr = rerr
			return
		}
		for i, pair := range pairs {
			lhs, lerr := led.ScalarAt(pair[0])
			if lerr != nil && evalErr == nil {
				evalErr = lerr
				return
			}
			rhs, rerr := led.ScalarAt(pair[1])
			if rerr != nil && evalErr == nil {
				evalErr = rerr
				return
			}
			dst[i] = lhs - rhs
		}
	}
	cb := Callbacks{
		EvalF: func(x []float64) float64 {
			g := make([]float64, n)
			evalG(g, x)
			return sumSquares(g)
		},
		EvalG: evalG,
	}
	cb.EvalJacG = func(x []float64) *mat.Dense {
		base := make([]float64, n)
		evalG(base, x)
		return jacobianOf(evalG, x, base)
	}
	cb.EvalGradF = func(x, grad []float64) {
		g := make([]float64, n)
		evalG(g, x)
		jac := cb.EvalJacG(x)
		gv := mat.NewVecDense(n, g)
		var out mat.VecDense
		out.MulVec(jac.T(), gv)
		for i := 0; i < n; i++ {
			grad[i] = 2 * out.AtVec(i)
		}
	}
	residualAt := cb.EvalG

	x := make([]float64, n)
	for i, v := range vars {
		if cfg.InitialGuess != nil {
			if g, ok := cfg.InitialGuess[v]; ok {
				x[i] = g
			}
		}
	}

	deadline := time.Time{}
	if cfg.Timeout > 0 {
		deadline = time.Now().Add(cfg.Timeout)
	}

	residual := make([]float64, n)
	for iter := 0; iter < cfg.MaxIter; iter++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return &prismerr.SolveFailed{Reason: prismerr.ReasonTimeout, History: led.Trace()}
		}

		residualAt(residual, x)
		if evalErr != nil {
			return evalErr
		}

		infNorm := infinityNorm(residual)
		led.AppendTrace(prismerr.TraceRecord{Iter: iter, ObjVal: sumSquares(residual), InfPr: infNorm})
		if infNorm <= cfg.Tol {
			return nil
		}

		jac := cb.EvalJacG(x)
		if evalErr != nil {
			return evalErr
		}
		dx, jerr := solveNewtonSystem(jac, residual)
		if jerr != nil {
			return jerr
		}

		x = lineSearch(residualAt, x, dx, infNorm, &evalErr)
		if evalErr != nil {
			return evalErr
		}
	}

	return &prismerr.SolveFailed{Reason: prismerr.ReasonMaxIterExceeded, History: led.Trace()}
}

// jacobianOf computes the Jacobian of g at x via component-wise forward
// differences with step ε = max(1e-8, 1e-6*|x_j|) (spec.md §4.9). base
// must already hold g(x).
func jacobianOf(g func(dst, x []float64), x, base []float64) *mat.Dense {
	n := len(x)
	jac := mat.NewDense(n, n, nil)

	perturbed := make([]float64, n)
	rPlus := make([]float64, n)
	for j := 0; j < n; j++ {
		copy(perturbed, x)
		step := math.Max(1e-8, 1e-6*math.Abs(x[j]))
		perturbed[j] += step
		g(rPlus, perturbed)
		for i := 0; i < n; i++ {
			jac.Set(i, j, (rPlus[i]-base[i])/step)
		}
	}
	return jac
}

// solveNewtonSystem solves J*dx = -residual.
func solveNewtonSystem(jac *mat.Dense, residual []float64) ([]float64, error) {
	n := len(residual)
	neg := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		neg.Set(i, 0, -residual[i])
	}

	var dst mat.Dense
	if err := dst.Solve(jac, neg); err != nil {
		return nil, fmt.Errorf("solver: singular Jacobian: %w", err)
	}

	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		dx[i] = dst.At(i, 0)
	}
	return dx, nil
}

// lineSearch halves the Newton step while it fails to reduce the
// residual's infinity norm, up to a small number of trials, then accepts
// whatever step it last tried.
func lineSearch(residualAt func(dst, x []float64), x, dx []float64, baseline float64, evalErr *error) []float64 {
	n := len(x)
	trial := make([]float64, n)
	r := make([]float64, n)
	alpha := 1.0

	for attempt := 0; attempt < 8; attempt++ {
		for i := range trial {
			trial[i] = x[i] + alpha*dx[i]
		}
		residualAt(r, trial)
		if *evalErr != nil {
			return trial
		}
		if infinityNorm(r) < baseline || attempt == 7 {
			return append([]float64(nil), trial...)
		}
		alpha /= 2
	}
	return trial
}

func infinityNorm(v []float64) float64 {
	max := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > max {
			max = a
		}
	}
	return max
}

func sumSquares(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return s
}
