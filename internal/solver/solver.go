// Package solver computes the angular-speed space of a shot: the band of
// (launch angle, launch speed) combinations that thread the cargo between
// the rim's near and far edges under drag-free ballistics.
package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/shotlab/cargoshot/internal/geometry"
	"github.com/shotlab/cargoshot/internal/numeric"
	"github.com/shotlab/cargoshot/pkg/core"
)

// ErrDomain is returned when the launch point admits no valid angle window,
// e.g. the shooter is too far out or behind the rim plane.
var ErrDomain = errors.New("launch geometry yields no valid angle window")

// Window is the angle domain over which a valid speed window exists.
// Radians, LowerAngle <= UpperAngle, both in [0, pi/2).
type Window struct {
	LowerAngle float64 `json:"lowerAngle"`
	UpperAngle float64 `json:"upperAngle"`
}

// Option configures a Solver.
type Option func(*Solver)

// WithRootFinder swaps the intersection root finder.
func WithRootFinder(r numeric.RootFinder) Option {
	return func(s *Solver) { s.roots = r }
}

// WithIntegrator swaps the area integrator.
func WithIntegrator(i numeric.Integrator) Option {
	return func(s *Solver) { s.integ = i }
}

// WithAngleBounds overrides the physically sensible launch-angle range.
// Degrees.
func WithAngleBounds(floorDeg, ceilDeg float64) Option {
	return func(s *Solver) {
		s.floor = floorDeg * math.Pi / 180
		s.ceil = ceilDeg * math.Pi / 180
	}
}

// WithSamples overrides the number of boundary-curve sample points.
func WithSamples(n int) Option {
	return func(s *Solver) { s.samples = n }
}

// Solver evaluates angular-speed spaces for a fixed geometry.
type Solver struct {
	geom    geometry.Geometry
	roots   numeric.RootFinder
	integ   numeric.Integrator
	floor   float64 // radians
	ceil    float64 // radians
	samples int
}

// New creates a Solver with the default numeric stack: a Newton root finder
// seeded near the ceiling angle and adaptive Gauss-Legendre quadrature.
func New(geom geometry.Geometry, opts ...Option) *Solver {
	s := &Solver{
		geom:    geom,
		roots:   numeric.NewNewton(),
		integ:   numeric.NewAdaptiveGaussLegendre(),
		floor:   5 * math.Pi / 180,
		ceil:    85 * math.Pi / 180,
		samples: 50,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve computes the angular-speed space for a launch point. The returned
// Angles are in degrees for plotting; LowerBound/UpperBound are speeds in
// m/s; Area integrates the speed-window width over the valid angle window.
func (s *Solver) Solve(pt core.Position2D) (core.AngSpeedSpace, error) {
	window, v2Far, v2Near, err := s.window(pt)
	if err != nil {
		return core.AngSpeedSpace{}, err
	}

	speedFar := func(a float64) float64 { return safeSqrt(v2Far, a) }
	speedNear := func(a float64) float64 { return safeSqrt(v2Near, a) }

	area, _, err := s.integ.Integrate(
		func(a float64) float64 { return speedFar(a) - speedNear(a) },
		window.LowerAngle, window.UpperAngle,
	)
	if err != nil {
		return core.AngSpeedSpace{}, fmt.Errorf("integrating speed window width: %w", err)
	}

	angles := make([]float64, s.samples)
	floats.Span(angles, deg(window.LowerAngle), deg(window.UpperAngle))

	lower := make([]float64, s.samples)
	upper := make([]float64, s.samples)
	for i, a := range angles {
		lower[i] = speedNear(rad(a))
		upper[i] = speedFar(rad(a))
	}

	return core.AngSpeedSpace{
		Area:       area,
		Angles:     angles,
		LowerBound: lower,
		UpperBound: upper,
	}, nil
}

// Window returns just the valid angle domain for a launch point.
func (s *Solver) Window(pt core.Position2D) (Window, error) {
	w, _, _, err := s.window(pt)
	return w, err
}

// window locates the valid angle domain and returns the two required-speed
// curves. The near edge is the rim edge horizontally closer to the shooter;
// for a shooter between the edges the constraint mirrors onto the launch
// direction, so both curves are built from horizontal distances.
func (s *Solver) window(pt core.Position2D) (Window, func(float64) (float64, bool), func(float64) (float64, bool), error) {
	// At or above the rim plane the near and far speed curves never meet,
	// so there is no lower window edge to find.
	if pt.Y >= s.geom.RimHeight {
		return Window{}, nil, nil, ErrDomain
	}

	dxFar := math.Abs(pt.X) + s.geom.RimHalfWidth
	dxNear := math.Abs(math.Abs(pt.X) - s.geom.RimHalfWidth)

	v2Far := speedSquared(s.geom.Gravity, pt, core.Position2D{X: pt.X + dxFar, Y: s.geom.RimHeight})
	v2Near := speedSquared(s.geom.Gravity, pt, core.Position2D{X: pt.X + dxNear, Y: s.geom.RimHeight})

	// The denominator of the required-speed model grows with angle, so a
	// curve that is out of domain at the ceiling is out of domain over the
	// whole swept window.
	if _, ok := v2Far(s.ceil); !ok {
		return Window{}, nil, nil, ErrDomain
	}
	if _, ok := v2Near(s.ceil); !ok {
		return Window{}, nil, nil, ErrDomain
	}

	intersection, err := s.roots.Find(func(a float64) float64 {
		far, okFar := v2Far(a)
		near, okNear := v2Near(a)
		if !okFar || !okNear {
			return math.NaN()
		}
		return far - near
	}, s.ceil)
	if err != nil {
		return Window{}, nil, nil, fmt.Errorf("locating near/far intersection: %w", err)
	}

	lower := math.Max(intersection, s.floor)
	if lower > s.ceil {
		return Window{}, nil, nil, ErrDomain
	}
	return Window{LowerAngle: lower, UpperAngle: s.ceil}, v2Far, v2Near, nil
}

// safeSqrt evaluates sqrt(v²(a)), treating out-of-domain or slightly
// negative values at the window boundary as zero speed rather than NaN.
func safeSqrt(v2 func(float64) (float64, bool), a float64) float64 {
	v, ok := v2(a)
	if !ok || v < 0 {
		return 0
	}
	return math.Sqrt(v)
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }
func rad(deg float64) float64 { return deg * math.Pi / 180 }
