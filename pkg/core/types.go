// Package core holds the plain numeric types exchanged between the compute
// engine and its presentation layer. Nothing in here depends on the engine
// internals, so frontends can import it without pulling the solver stack.
package core

import (
	"encoding/json"
	"math"
)

// Position2D is a point in the vertical shot plane. X is measured from the
// plane centered under the rim's midpoint, Y from the floor. Meters.
type Position2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polyline is an ordered sequence of positions, used for trajectory paths.
type Polyline []Position2D

// Outcome classifies where a simulated shot ended up relative to the rim.
type Outcome int

const (
	// OutcomeUndershot means the cargo never reached the rim plane.
	OutcomeUndershot Outcome = -1
	// OutcomeSuccess means the cargo came down inside the rim span.
	OutcomeSuccess Outcome = 0
	// OutcomeOvershot means the cargo passed or struck the far side.
	OutcomeOvershot Outcome = 1
)

// ShotState is the full simulation state at one instant: position and
// velocity in the shot plane. SI units.
type ShotState struct {
	X  float64 `json:"x"`
	VX float64 `json:"vx"`
	Y  float64 `json:"y"`
	VY float64 `json:"vy"`
}

// Speed returns the magnitude of the velocity vector.
func (s ShotState) Speed() float64 {
	return math.Hypot(s.VX, s.VY)
}

// TrajectoryResult is the sampled flight path plus the shot outcome.
// X and Y always have equal length.
type TrajectoryResult struct {
	Result Outcome   `json:"result"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

// Path returns the trajectory as a polyline.
func (t TrajectoryResult) Path() Polyline {
	p := make(Polyline, len(t.X))
	for i := range t.X {
		p[i] = Position2D{X: t.X[i], Y: t.Y[i]}
	}
	return p
}

// AngSpeedSpace describes the band of (angle, speed) combinations that
// thread the cargo between the rim's near and far edges. Angles are in
// degrees for plotting; speeds in m/s. Area is the forgiveness metric:
// the integral of the speed-window width over the valid angle domain.
type AngSpeedSpace struct {
	Area       float64   `json:"area"`
	Angles     []float64 `json:"angles"`
	LowerBound []float64 `json:"lower_bound"`
	UpperBound []float64 `json:"upper_bound"`
}

// Field is a 2-D scalar forgiveness field over a grid of launch positions.
// AreaGrid is row-major over XRange then YRange; unreachable cells hold NaN.
type Field struct {
	XRange   []float64   `json:"x_range"`
	YRange   []float64   `json:"y_range"`
	AreaGrid [][]float64 `json:"area_grid"`
}

// fieldJSON is the wire form of Field: pointer cells so NaN can be
// represented as null.
type fieldJSON struct {
	XRange   []float64    `json:"x_range"`
	YRange   []float64    `json:"y_range"`
	AreaGrid [][]*float64 `json:"area_grid"`
}

// MarshalJSON renders unreachable cells as null. JSON has no NaN literal,
// and a single unreachable cell must not make the whole grid unencodable.
func (f Field) MarshalJSON() ([]byte, error) {
	grid := make([][]*float64, len(f.AreaGrid))
	for i, row := range f.AreaGrid {
		grid[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				cell := v
				grid[i][j] = &cell
			}
		}
	}
	return json.Marshal(fieldJSON{XRange: f.XRange, YRange: f.YRange, AreaGrid: grid})
}

// UnmarshalJSON maps null cells back to NaN.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.XRange = raw.XRange
	f.YRange = raw.YRange
	f.AreaGrid = make([][]float64, len(raw.AreaGrid))
	for i, row := range raw.AreaGrid {
		f.AreaGrid[i] = make([]float64, len(row))
		for j, cell := range row {
			if cell == nil {
				f.AreaGrid[i][j] = math.NaN()
			} else {
				f.AreaGrid[i][j] = *cell
			}
		}
	}
	return nil
}
