// Package engine exposes the compute operations consumed by the
// presentation layer: trajectory simulation, angular-speed-space solving,
// and forgiveness-field aggregation. All operations are synchronous and
// return plain numeric structures from pkg/core.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/shotlab/cargoshot/internal/cache"
	"github.com/shotlab/cargoshot/internal/field"
	"github.com/shotlab/cargoshot/internal/flight"
	"github.com/shotlab/cargoshot/internal/geometry"
	"github.com/shotlab/cargoshot/internal/influx"
	"github.com/shotlab/cargoshot/internal/solver"
	"github.com/shotlab/cargoshot/pkg/core"
)

// Operation names used in metrics and influx points.
const (
	OpTrajectory    = "trajectory"
	OpAngSpeedSpace = "angspeed"
	OpField         = "field"
)

// Dependencies holds all dependencies for the engine service.
type Dependencies struct {
	Geometry geometry.Geometry
	Logger   *slog.Logger
	Influx   *influx.Manager    // optional; nil disables performance recording
	Cache    *cache.ResultCache // optional; nil disables result memoization
	Workers  int                // field worker goroutines; 0 = NumCPU
}

// Service implements the engine operations for a fixed geometry.
type Service struct {
	deps   Dependencies
	solver *solver.Solver
	sim    *flight.Simulator
	agg    *field.Aggregator

	processed metric.Int64Counter
	failed    metric.Int64Counter
}

// NewService creates the engine service and its compute components.
func NewService(deps Dependencies, solverOpts []solver.Option, simOpts []flight.Option) (*Service, error) {
	if err := deps.Geometry.Validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Service{
		deps:   deps,
		solver: solver.New(deps.Geometry, solverOpts...),
		sim:    flight.New(deps.Geometry, simOpts...),
	}

	fieldOpts := []field.Option{field.WithLogger(deps.Logger)}
	if deps.Workers > 0 {
		fieldOpts = append(fieldOpts, field.WithWorkers(deps.Workers))
	}
	agg, err := field.New(deps.Geometry, s.solver, fieldOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating field aggregator: %w", err)
	}
	s.agg = agg

	m := meter()

	s.processed, err = m.Int64Counter(
		"engine.operations.processed",
		metric.WithDescription("Total compute operations handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	s.failed, err = m.Int64Counter(
		"engine.operations.failed",
		metric.WithDescription("Compute operations that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	if deps.Cache != nil {
		cacheSize, err := m.Int64ObservableGauge(
			"engine.cache.size",
			metric.WithDescription("Number of memoized angular-speed-space results"),
		)
		if err != nil {
			return nil, fmt.Errorf("creating cache gauge: %w", err)
		}
		_, err = m.RegisterCallback(
			func(ctx context.Context, o metric.Observer) error {
				o.ObserveInt64(cacheSize, int64(deps.Cache.Len()))
				return nil
			},
			cacheSize,
		)
		if err != nil {
			return nil, fmt.Errorf("registering cache callback: %w", err)
		}
	}

	return s, nil
}

// Geometry returns the geometry the service was built with.
func (s *Service) Geometry() geometry.Geometry {
	return s.deps.Geometry
}

// ComputeTrajectory simulates a full drag-affected flight from the given
// initial position and velocity and classifies the outcome.
func (s *Service) ComputeTrajectory(x, vx, y, vy float64) (core.TrajectoryResult, error) {
	start := time.Now()
	result, err := s.sim.Simulate(core.ShotState{X: x, VX: vx, Y: y, VY: vy})
	s.record(OpTrajectory, start, err)
	if err != nil {
		return core.TrajectoryResult{}, fmt.Errorf("simulating trajectory: %w", err)
	}
	return result, nil
}

// ComputeAngularSpeedSpace solves the (angle, speed) success band for a
// launch point. Results are memoized per launch point when a cache is
// configured.
func (s *Service) ComputeAngularSpeedSpace(x, y float64) (core.AngSpeedSpace, error) {
	pt := core.Position2D{X: x, Y: y}

	if s.deps.Cache != nil {
		if cached, ok := s.deps.Cache.Get(pt); ok {
			// Memoized calls still count as processed, tagged so they can
			// be told apart from fresh solves.
			s.processed.Add(context.Background(), 1, metric.WithAttributes(
				attribute.String("operation", OpAngSpeedSpace),
				attribute.Bool("cached", true),
			))
			return cached, nil
		}
	}

	start := time.Now()
	result, err := s.solver.Solve(pt)
	s.record(OpAngSpeedSpace, start, err)
	if err != nil {
		return core.AngSpeedSpace{}, err
	}

	if s.deps.Cache != nil {
		s.deps.Cache.Put(pt, result)
	}
	return result, nil
}

// ComputeField aggregates the solver over a grid of launch positions.
// Unreachable cells hold NaN.
func (s *Service) ComputeField(xRange, yRange []float64) (core.Field, error) {
	start := time.Now()
	result, err := s.agg.Compute(xRange, yRange)
	s.record(OpField, start, err)
	if err != nil {
		return core.Field{}, fmt.Errorf("aggregating field: %w", err)
	}

	if s.deps.Influx != nil {
		unreachable := 0
		for _, row := range result.AreaGrid {
			for _, v := range row {
				if math.IsNaN(v) {
					unreachable++
				}
			}
		}
		if err := s.deps.Influx.RecordFieldRun(
			context.Background(),
			len(result.XRange), len(result.YRange), unreachable, time.Since(start),
		); err != nil {
			s.deps.Logger.Debug("failed to record field run", "error", err)
		}
	}

	return result, nil
}

// ComputeDefaultField aggregates over the default launch-position grid.
func (s *Service) ComputeDefaultField() (core.Field, error) {
	return s.ComputeField(field.DefaultXRange(), field.DefaultYRange())
}

// record updates the operation counters and writes an influx point.
func (s *Service) record(operation string, start time.Time, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("operation", operation))

	s.processed.Add(ctx, 1, attrs)
	if err != nil {
		s.failed.Add(ctx, 1, attrs)
	}

	if s.deps.Influx != nil {
		if recErr := s.deps.Influx.RecordOperation(ctx, operation, time.Since(start), err); recErr != nil {
			s.deps.Logger.Debug("failed to record operation", "operation", operation, "error", recErr)
		}
	}
}
