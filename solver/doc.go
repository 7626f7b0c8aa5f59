// Package solver implements the solver bridge of spec.md §4.9: it drives
// the engine over the constraint subsystem until every constraint's
// residual (lhs - rhs) is within tolerance, exposing the IPOPT-shaped
// evaluator callback surface (eval_f/eval_g/eval_grad_f/eval_jac_g)
// named in spec.md §6 even though no IPOPT binding is wired — per
// DESIGN.md's Open Question resolution, the callbacks are driven
// internally by a damped Newton iteration instead of the external NLP
// library, since no Go IPOPT binding exists to wrap.
//
// The Jacobian step formula (ε = max(1e-8, 1e-6*|x|), per-component) is
// hand-rolled rather than routed through gonum/diff/fd, whose Settings
// accept one step size for the whole call; gonum/mat is used for the
// per-iteration linear solve (the teacher lineage has no numerics
// package of its own, so this is new ground adopted from the rest of the
// retrieval pack rather than grounded on the teacher itself).
package solver
