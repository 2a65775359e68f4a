// Package flight integrates the full nonlinear equations of motion of a
// cargo shot: gravity plus quadratic aerodynamic drag, with event-triggered
// early termination on ground impact, rim collision, or passing the rim.
package flight

import (
	"errors"
	"math"

	"github.com/shotlab/cargoshot/internal/geometry"
	"github.com/shotlab/cargoshot/pkg/core"
)

// ErrIntegrationDiverged is returned when the integrator cannot produce a
// finite state within the time span, e.g. for a pathological initial velocity.
var ErrIntegrationDiverged = errors.New("flight integration did not produce a finite state")

// Option configures a Simulator.
type Option func(*Simulator)

// WithTimeSpan overrides the maximum simulated flight time in seconds.
func WithTimeSpan(seconds float64) Option {
	return func(s *Simulator) { s.span = seconds }
}

// WithMaxStep overrides the step-size cap, which bounds the sampling
// resolution of the output path.
func WithMaxStep(seconds float64) Option {
	return func(s *Simulator) { s.maxStep = seconds }
}

// WithTolerance overrides the local error tolerance of the adaptive stepper.
func WithTolerance(tol float64) Option {
	return func(s *Simulator) { s.tol = tol }
}

// Simulator integrates shot flights for a fixed geometry.
type Simulator struct {
	geom    geometry.Geometry
	span    float64
	maxStep float64
	tol     float64
}

// New creates a Simulator with the reference limits: a 5 second time span
// and a 0.05 second step cap.
func New(geom geometry.Geometry, opts ...Option) *Simulator {
	s := &Simulator{
		geom:    geom,
		span:    5.0,
		maxStep: 0.05,
		tol:     1e-8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate integrates the flight from the initial state and classifies the
// outcome from the final recorded horizontal position. The returned path is
// sampled at every accepted step, so its resolution is bounded by the step
// cap; the terminal point is located to sub-step precision.
func (s *Simulator) Simulate(initial core.ShotState) (core.TrajectoryResult, error) {
	y := state{initial.X, initial.VX, initial.Y, initial.VY}
	if !y.finite() {
		return core.TrajectoryResult{}, ErrIntegrationDiverged
	}

	xs := []float64{y[0]}
	ys := []float64{y[2]}

	t := 0.0
	h := s.maxStep
	k1 := derivatives(s.geom, y)

	for t < s.span {
		if h > s.span-t {
			h = s.span - t
		}

		yNew, k4, errNorm := s.step(y, k1, h)
		if !yNew.finite() {
			return core.TrajectoryResult{}, ErrIntegrationDiverged
		}

		if errNorm > s.tol {
			// Reject and shrink.
			h *= math.Max(0.2, 0.9*math.Cbrt(s.tol/errNorm))
			if h < 1e-12 {
				return core.TrajectoryResult{}, ErrIntegrationDiverged
			}
			continue
		}

		// Accepted step: check terminal events over [t, t+h] using the
		// dense cubic Hermite interpolant of the step.
		interp := hermite(y, yNew, k1, k4, h)
		if hit, tHit := s.firstEvent(y, yNew, interp, h); hit {
			final := interp(tHit)
			xs = append(xs, final[0])
			ys = append(ys, final[2])
			return s.classify(xs, ys), nil
		}

		t += h
		y = yNew
		k1 = k4 // first-same-as-last
		xs = append(xs, y[0])
		ys = append(ys, y[2])

		// Grow the step, bounded by the cap.
		if errNorm > 0 {
			h *= math.Min(5, 0.9*math.Cbrt(s.tol/errNorm))
		} else {
			h *= 5
		}
		if h > s.maxStep {
			h = s.maxStep
		}
	}

	return s.classify(xs, ys), nil
}

// step advances one Bogacki-Shampine 3(2) step of size h from y with
// derivative k1, returning the new state, its derivative, and the scaled
// local error estimate.
func (s *Simulator) step(y state, k1 state, h float64) (state, state, float64) {
	k2 := derivatives(s.geom, axpy(y, h/2, k1))
	k3 := derivatives(s.geom, axpy(y, 3*h/4, k2))

	var yNew state
	for i := range yNew {
		yNew[i] = y[i] + h*(2.0/9.0*k1[i]+1.0/3.0*k2[i]+4.0/9.0*k3[i])
	}
	k4 := derivatives(s.geom, yNew)

	var errNorm float64
	for i := range yNew {
		e := h * (-5.0/72.0*k1[i] + 1.0/12.0*k2[i] + 1.0/9.0*k3[i] - 1.0/8.0*k4[i])
		scale := 1 + math.Max(math.Abs(y[i]), math.Abs(yNew[i]))
		errNorm = math.Max(errNorm, math.Abs(e)/scale)
	}
	return yNew, k4, errNorm
}

// firstEvent scans all terminal events for a sign change across the step and
// returns the earliest in-step crossing time (relative to the step start).
func (s *Simulator) firstEvent(y0, y1 state, interp func(float64) state, h float64) (bool, float64) {
	hit := false
	tFirst := h

	for _, ev := range terminalEvents {
		g0 := ev(s.geom, y0)
		g1 := ev(s.geom, y1)
		if g0 == 0 || g0*g1 > 0 {
			continue
		}
		tEv := bisectEvent(func(t float64) float64 { return ev(s.geom, interp(t)) }, 0, h, g0)
		if tEv <= tFirst {
			hit = true
			tFirst = tEv
		}
	}
	return hit, tFirst
}

// bisectEvent locates the zero of g in (lo, hi] given the sign of g(lo).
func bisectEvent(g func(float64) float64, lo, hi, gLo float64) float64 {
	for i := 0; i < 80 && hi-lo > 1e-14; i++ {
		mid := lo + (hi-lo)/2
		gm := g(mid)
		if gm == 0 {
			return mid
		}
		if math.Signbit(gm) == math.Signbit(gLo) {
			lo = mid
			gLo = gm
		} else {
			hi = mid
		}
	}
	return hi
}

// classify applies the outcome rule to the final recorded x position.
func (s *Simulator) classify(xs, ys []float64) core.TrajectoryResult {
	finalX := xs[len(xs)-1]

	result := core.OutcomeSuccess
	if finalX < -s.geom.RimHalfWidth {
		result = core.OutcomeUndershot
	} else if finalX > s.geom.RimHalfWidth-s.geom.CargoRadius {
		result = core.OutcomeOvershot
	}

	return core.TrajectoryResult{Result: result, X: xs, Y: ys}
}

// hermite builds the cubic Hermite interpolant of a step: state at offset
// t in [0, h] from the step start.
func hermite(y0, y1, d0, d1 state, h float64) func(float64) state {
	return func(t float64) state {
		u := t / h
		u2 := u * u
		u3 := u2 * u

		h00 := 2*u3 - 3*u2 + 1
		h10 := u3 - 2*u2 + u
		h01 := -2*u3 + 3*u2
		h11 := u3 - u2

		var out state
		for i := range out {
			out[i] = h00*y0[i] + h10*h*d0[i] + h01*y1[i] + h11*h*d1[i]
		}
		return out
	}
}

// axpy returns y + a*k.
func axpy(y state, a float64, k state) state {
	var out state
	for i := range out {
		out[i] = y[i] + a*k[i]
	}
	return out
}
