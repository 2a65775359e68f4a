// Package geo converts trajectory paths between the engine's plain numeric
// form and geometry types usable by the presentation layer (plotting,
// intersection checks against the rim structure).
package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/shotlab/cargoshot/pkg/core"
)

// ErrPathTooShort is returned when a path has fewer than two points.
var ErrPathTooShort = errors.New("trajectory path must have at least 2 points")

// PathLineString converts a sampled trajectory into a LineString in the
// shot plane (X horizontal, Y vertical).
func PathLineString(t core.TrajectoryResult) (geom.LineString, error) {
	if len(t.X) < 2 || len(t.X) != len(t.Y) {
		return geom.LineString{}, ErrPathTooShort
	}

	flat := make([]float64, 0, len(t.X)*2)
	for i := range t.X {
		flat = append(flat, t.X[i], t.Y[i])
	}

	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq), nil
}

// RimEnvelope returns the rectangle spanned by the rim opening: from the
// near edge at floor level to the far edge at rim height. Useful for
// clearance checks against a trajectory LineString.
func RimEnvelope(halfWidth, height float64) geom.Envelope {
	return geom.NewEnvelope(
		geom.XY{X: -halfWidth, Y: 0},
		geom.XY{X: halfWidth, Y: height},
	)
}

// CrossesRim reports whether a trajectory path comes within the cargo
// radius of the rim opening. The envelope is grown by the radius so a
// center path that grazes the rim plane still counts.
func CrossesRim(t core.TrajectoryResult, halfWidth, height, radius float64) (bool, error) {
	ls, err := PathLineString(t)
	if err != nil {
		return false, err
	}
	env := geom.NewEnvelope(
		geom.XY{X: -halfWidth - radius, Y: -radius},
		geom.XY{X: halfWidth + radius, Y: height + radius},
	)
	return geom.Intersects(ls.AsGeometry(), env.AsGeometry()), nil
}

// ParsePolyline parses a JSON array of coordinates into a core.Polyline.
// Input format: "[[x1,y1],[x2,y2],...]"
func ParsePolyline(input string) (core.Polyline, error) {
	var coords [][]float64
	if err := json.Unmarshal([]byte(input), &coords); err != nil {
		return nil, fmt.Errorf("failed to parse polyline JSON: %w", err)
	}

	if len(coords) < 2 {
		return nil, ErrPathTooShort
	}

	polyline := make(core.Polyline, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, fmt.Errorf("coordinate %d has insufficient values", i)
		}
		polyline[i] = core.Position2D{X: coord[0], Y: coord[1]}
	}

	return polyline, nil
}

// FormatPolyline renders a polyline as the JSON coordinate-array format
// accepted by ParsePolyline.
func FormatPolyline(p core.Polyline) (string, error) {
	coords := make([][]float64, len(p))
	for i, pt := range p {
		coords[i] = []float64{pt.X, pt.Y}
	}
	out, err := json.Marshal(coords)
	if err != nil {
		return "", fmt.Errorf("failed to marshal polyline: %w", err)
	}
	return string(out), nil
}
