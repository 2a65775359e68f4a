// Package field aggregates the angular-speed-space solver over a regular
// grid of launch positions to build a 2-D forgiveness field.
package field

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/shotlab/cargoshot/internal/geometry"
	"github.com/shotlab/cargoshot/internal/solver"
	"github.com/shotlab/cargoshot/pkg/core"
)

// AreaSolver computes an angular-speed space for a launch point.
type AreaSolver interface {
	Solve(pt core.Position2D) (core.AngSpeedSpace, error)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWorkers overrides the number of grid worker goroutines.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger sets the logger for per-cell failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// Aggregator evaluates an AreaSolver at every grid point, scaling each
// result by the rim's angular subtense seen from that x position.
type Aggregator struct {
	geom    geometry.Geometry
	solver  AreaSolver
	logger  *slog.Logger
	workers int

	cellsProcessed metric.Int64Counter
	cellsFailed    metric.Int64Counter
}

// New creates an Aggregator. Metrics use the global OTel meter, which is a
// no-op when no provider is configured.
func New(geom geometry.Geometry, s AreaSolver, opts ...Option) (*Aggregator, error) {
	a := &Aggregator{
		geom:    geom,
		solver:  s,
		logger:  slog.Default(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(a)
	}

	m := meter()
	var err error

	a.cellsProcessed, err = m.Int64Counter(
		"field.cells.processed",
		metric.WithDescription("Total grid cells evaluated"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	a.cellsFailed, err = m.Int64Counter(
		"field.cells.failed",
		metric.WithDescription("Grid cells that produced a domain error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	return a, nil
}

// Compute builds the forgiveness field over the Cartesian product of the
// two coordinate ranges. Cells are independent and evaluated by a bounded
// pool of workers writing to disjoint grid slots. A cell whose geometry is
// unreachable holds NaN; it never aborts the rest of the grid.
func (a *Aggregator) Compute(xRange, yRange []float64) (core.Field, error) {
	grid := make([][]float64, len(xRange))
	for i := range grid {
		grid[i] = make([]float64, len(yRange))
	}

	type cell struct{ xi, yi int }
	jobs := make(chan cell)

	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				grid[c.xi][c.yi] = a.cellValue(xRange[c.xi], yRange[c.yi])
			}
		}()
	}

	for xi := range xRange {
		for yi := range yRange {
			jobs <- cell{xi, yi}
		}
	}
	close(jobs)
	wg.Wait()

	return core.Field{
		XRange:   append([]float64(nil), xRange...),
		YRange:   append([]float64(nil), yRange...),
		AreaGrid: grid,
	}, nil
}

// ComputeDefault builds the field over the default launch-position grid.
func (a *Aggregator) ComputeDefault() (core.Field, error) {
	return a.Compute(DefaultXRange(), DefaultYRange())
}

func (a *Aggregator) cellValue(x, y float64) float64 {
	ctx := context.Background()
	a.cellsProcessed.Add(ctx, 1)

	space, err := a.solver.Solve(core.Position2D{X: x, Y: y})
	if err != nil {
		a.cellsFailed.Add(ctx, 1)
		a.logger.Debug("grid cell unreachable", "x", x, "y", y, "error", err)
		return math.NaN()
	}
	return space.Area * Weight(a.geom, x)
}

// Weight is the positional scaling applied to each cell: the rim's angular
// subtense atan2(rimWidth, |x|) as seen from the launch x, approximating the
// reduced effective opening for off-center shots.
func Weight(g geometry.Geometry, x float64) float64 {
	return math.Atan2(g.RimWidth(), math.Abs(x))
}

// DefaultXRange is the default launch x sweep: -6 to -1, step 0.2,
// exclusive of the endpoint.
func DefaultXRange() []float64 {
	return Range(-6, -1, 0.2)
}

// DefaultYRange is the default launch y sweep: 0.2 to 1.25, step 0.2,
// exclusive of the endpoint.
func DefaultYRange() []float64 {
	return Range(0.2, 1.25, 0.2)
}

// Range builds a half-open coordinate sweep: start, start+step, ...
// strictly below stop. Returns nil when the interval is empty.
func Range(start, stop, step float64) []float64 {
	if step <= 0 {
		return nil
	}
	n := int(math.Ceil((stop - start) / step))
	if n <= 0 {
		return nil
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		out = append(out, v)
	}
	return out
}

var _ AreaSolver = (*solver.Solver)(nil)
