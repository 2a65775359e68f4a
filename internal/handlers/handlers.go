// Package handlers binds the engine's compute operations to dispatcher
// commands. Each handler parses its string arguments, invokes the engine,
// and returns a JSON-encodable result.
package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shotlab/cargoshot/internal/dispatcher"
	"github.com/shotlab/cargoshot/internal/engine"
	"github.com/shotlab/cargoshot/internal/field"
	"github.com/shotlab/cargoshot/internal/geo"
	"github.com/shotlab/cargoshot/pkg/core"
)

// Dependencies holds all dependencies needed by handlers.
type Dependencies struct {
	Engine  *engine.Service
	Version string
}

// Service provides the command handlers.
type Service struct {
	deps Dependencies
}

// NewService creates a handler service.
func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// Register wires all command handlers onto the dispatcher.
func (s *Service) Register(d *dispatcher.Dispatcher) {
	d.Register("version", s.handleVersion)
	d.Register("geometry", s.handleGeometry)
	d.Register("trajectory", s.handleTrajectory, dispatcher.Logged())
	d.Register("angspeed", s.handleAngSpeedSpace, dispatcher.Logged())
	d.Register("field", s.handleField, dispatcher.Logged())
}

// handleVersion reports the build version.
// Usage: version
func (s *Service) handleVersion(e dispatcher.Event) (any, error) {
	return map[string]string{"name": "cargoshot", "version": s.deps.Version}, nil
}

// handleGeometry reports the physical parameters the engine was built with.
// Usage: geometry
func (s *Service) handleGeometry(e dispatcher.Event) (any, error) {
	return s.deps.Engine.Geometry(), nil
}

// TrajectoryReport is the trajectory command output: the raw simulation
// result plus the path in polyline form and whether it reached the rim
// opening.
type TrajectoryReport struct {
	core.TrajectoryResult
	Polyline   json.RawMessage `json:"polyline"`
	CrossesRim bool            `json:"crosses_rim"`
}

// handleTrajectory simulates one drag-affected flight.
// Usage: trajectory <x> <vx> <y> <vy>
func (s *Service) handleTrajectory(e dispatcher.Event) (any, error) {
	params, err := parseFloats(e.Args, 4)
	if err != nil {
		return nil, fmt.Errorf("trajectory arguments: %w", err)
	}
	result, err := s.deps.Engine.ComputeTrajectory(params[0], params[1], params[2], params[3])
	if err != nil {
		return nil, err
	}

	g := s.deps.Engine.Geometry()
	crosses, err := geo.CrossesRim(result, g.RimHalfWidth, g.RimHeight, g.CargoRadius)
	if err != nil {
		return nil, fmt.Errorf("analyzing trajectory path: %w", err)
	}
	polyline, err := geo.FormatPolyline(result.Path())
	if err != nil {
		return nil, fmt.Errorf("formatting trajectory path: %w", err)
	}

	return TrajectoryReport{
		TrajectoryResult: result,
		Polyline:         json.RawMessage(polyline),
		CrossesRim:       crosses,
	}, nil
}

// handleAngSpeedSpace computes the (angle, speed) success band for one
// launch point.
// Usage: angspeed <x> <y>
func (s *Service) handleAngSpeedSpace(e dispatcher.Event) (any, error) {
	params, err := parseFloats(e.Args, 2)
	if err != nil {
		return nil, fmt.Errorf("angspeed arguments: %w", err)
	}
	return s.deps.Engine.ComputeAngularSpeedSpace(params[0], params[1])
}

// handleField aggregates the forgiveness field. Without arguments it uses
// the default launch-position grid; with six it sweeps custom ranges.
// Usage: field [<xStart> <xStop> <xStep> <yStart> <yStop> <yStep>]
func (s *Service) handleField(e dispatcher.Event) (any, error) {
	if len(e.Args) == 0 {
		return s.deps.Engine.ComputeDefaultField()
	}

	params, err := parseFloats(e.Args, 6)
	if err != nil {
		return nil, fmt.Errorf("field arguments: %w", err)
	}

	xRange := field.Range(params[0], params[1], params[2])
	yRange := field.Range(params[3], params[4], params[5])
	if len(xRange) == 0 || len(yRange) == 0 {
		return nil, fmt.Errorf("field arguments: empty coordinate range")
	}
	return s.deps.Engine.ComputeField(xRange, yRange)
}

// parseFloats parses exactly n numeric arguments.
func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numeric arguments, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
