// Package numeric provides the 1-D root finder and definite-integral
// evaluator used by the solver. Both sit behind narrow interfaces so the
// algorithm family can be swapped without touching callers.
package numeric

import (
	"errors"
	"math"
)

// ErrRootFindDiverged is returned when the root search exhausts its
// iteration budget without converging.
var ErrRootFindDiverged = errors.New("root finding did not converge within iteration budget")

// ErrQuadratureDiverged is returned when the integral's error estimate
// exceeds the requested tolerance.
var ErrQuadratureDiverged = errors.New("quadrature error estimate exceeds tolerance")

// Func is a scalar function of one variable.
type Func func(float64) float64

// RootFinder locates a zero of f starting from a seed value.
type RootFinder interface {
	Find(f Func, seed float64) (float64, error)
}

// Integrator evaluates a definite integral and reports an error estimate.
type Integrator interface {
	Integrate(f Func, a, b float64) (value, errEstimate float64, err error)
}

// Newton is a damped Newton root finder with a numerical derivative.
// The zero value is not usable; call NewNewton.
type Newton struct {
	Tol     float64
	MaxIter int
}

// NewNewton returns a Newton finder with the default tolerance.
func NewNewton() *Newton {
	return &Newton{Tol: 1e-10, MaxIter: 100}
}

// Find searches for a zero of f near seed. It converges when either the
// residual or the step falls below the tolerance.
func (n *Newton) Find(f Func, seed float64) (float64, error) {
	x := seed
	scale := math.Max(math.Abs(seed), 1)

	for i := 0; i < n.MaxIter; i++ {
		fx := f(x)
		if math.IsNaN(fx) {
			return 0, ErrRootFindDiverged
		}
		if math.Abs(fx) < n.Tol {
			return x, nil
		}

		// Central-difference derivative at a step scaled to x.
		h := 1e-7 * math.Max(math.Abs(x), 1e-3)
		d := (f(x+h) - f(x-h)) / (2 * h)
		if d == 0 || math.IsNaN(d) {
			return 0, ErrRootFindDiverged
		}

		step := fx / d
		// Damp runaway steps so a near-flat region cannot fling the
		// iterate out of the function's domain.
		if maxStep := 0.5 * scale; math.Abs(step) > maxStep {
			step = math.Copysign(maxStep, step)
		}
		x -= step

		if math.Abs(step) < n.Tol*math.Max(math.Abs(x), 1) {
			return x, nil
		}
	}
	return 0, ErrRootFindDiverged
}
