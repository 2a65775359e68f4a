package numeric

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// AdaptiveGaussLegendre integrates by recursive panel splitting. Each panel
// is evaluated with a 5-point and a 10-point Gauss-Legendre rule; the
// difference between the two is the panel's error estimate. Panels whose
// estimate exceeds their share of the tolerance are bisected.
type AdaptiveGaussLegendre struct {
	Tol      float64
	MaxDepth int
}

// NewAdaptiveGaussLegendre returns an integrator with the default tolerance.
func NewAdaptiveGaussLegendre() *AdaptiveGaussLegendre {
	return &AdaptiveGaussLegendre{Tol: 1e-9, MaxDepth: 30}
}

// Integrate evaluates the integral of f over [a, b]. The returned error
// estimate is the sum of the accepted panel estimates. ErrQuadratureDiverged
// is returned when a panel at maximum depth still misses its tolerance.
func (q *AdaptiveGaussLegendre) Integrate(f Func, a, b float64) (float64, float64, error) {
	if a == b {
		return 0, 0, nil
	}
	sign := 1.0
	if b < a {
		a, b = b, a
		sign = -1
	}
	value, estimate, err := q.panel(f, a, b, q.Tol, 0)
	return sign * value, estimate, err
}

func (q *AdaptiveGaussLegendre) panel(f Func, a, b, tol float64, depth int) (float64, float64, error) {
	coarse := quad.Fixed(f, a, b, 5, quad.Legendre{}, 0)
	fine := quad.Fixed(f, a, b, 10, quad.Legendre{}, 0)

	estimate := math.Abs(fine - coarse)
	if math.IsNaN(fine) || math.IsInf(fine, 0) {
		return 0, 0, ErrQuadratureDiverged
	}
	if estimate <= tol*math.Max(1, math.Abs(fine)) {
		return fine, estimate, nil
	}
	if depth >= q.MaxDepth {
		return 0, 0, ErrQuadratureDiverged
	}

	mid := a + (b-a)/2
	left, leftEst, err := q.panel(f, a, mid, tol/2, depth+1)
	if err != nil {
		return 0, 0, err
	}
	right, rightEst, err := q.panel(f, mid, b, tol/2, depth+1)
	if err != nil {
		return 0, 0, err
	}
	return left + right, leftEst + rightEst, nil
}
