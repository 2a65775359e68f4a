package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestShotStateSpeed(t *testing.T) {
	s := ShotState{VX: 3, VY: 4}
	if got := s.Speed(); got != 5 {
		t.Errorf("Speed() = %v, want 5", got)
	}
	if got := (ShotState{}).Speed(); got != 0 {
		t.Errorf("Speed() of rest state = %v, want 0", got)
	}
}

func TestTrajectoryResultPath(t *testing.T) {
	res := TrajectoryResult{
		Result: OutcomeSuccess,
		X:      []float64{-3, -2, -1},
		Y:      []float64{0.5, 1.2, 1.8},
	}

	p := res.Path()
	if len(p) != 3 {
		t.Fatalf("len(Path()) = %d, want 3", len(p))
	}
	if p[1] != (Position2D{X: -2, Y: 1.2}) {
		t.Errorf("Path()[1] = %+v, want {-2 1.2}", p[1])
	}
}

func TestFieldJSON_NaNCellsAsNull(t *testing.T) {
	f := Field{
		XRange:   []float64{-0.4, -3},
		YRange:   []float64{0.2},
		AreaGrid: [][]float64{{math.NaN()}, {0.19}},
	}

	out, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded struct {
		AreaGrid [][]*float64 `json:"area_grid"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.AreaGrid[0][0] != nil {
		t.Errorf("unreachable cell = %v, want null", *decoded.AreaGrid[0][0])
	}
	if decoded.AreaGrid[1][0] == nil || *decoded.AreaGrid[1][0] != 0.19 {
		t.Error("reachable cell not preserved")
	}

	var back Field
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal(Field) error = %v", err)
	}
	if !math.IsNaN(back.AreaGrid[0][0]) {
		t.Errorf("round-trip unreachable cell = %v, want NaN", back.AreaGrid[0][0])
	}
	if back.AreaGrid[1][0] != 0.19 {
		t.Errorf("round-trip reachable cell = %v, want 0.19", back.AreaGrid[1][0])
	}
}

func TestAngSpeedSpaceJSON(t *testing.T) {
	space := AngSpeedSpace{
		Area:       1.5,
		Angles:     []float64{48, 85},
		LowerBound: []float64{10, 11},
		UpperBound: []float64{12, 14},
	}

	out, err := json.Marshal(space)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"area", "angles", "lower_bound", "upper_bound"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("marshaled output missing %q key", key)
		}
	}
	if got := decoded["area"].(float64); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("area = %v, want 1.5", got)
	}
}
