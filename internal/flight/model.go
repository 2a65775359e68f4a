package flight

import (
	"math"

	"github.com/shotlab/cargoshot/internal/geometry"
)

// speedEpsilon guards the drag direction terms: below this speed the
// unit-velocity components are ill-conditioned and drag is treated as zero.
const speedEpsilon = 1e-9

// state is the integration vector (x, vx, y, vy).
type state [4]float64

func (s state) finite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// derivatives evaluates the equations of motion: gravity plus quadratic
// aerodynamic drag opposing the velocity vector.
func derivatives(g geometry.Geometry, s state) state {
	vx, vy := s[1], s[3]

	v2 := vx*vx + vy*vy
	v := math.Sqrt(v2)

	var fx, fy float64
	if v > speedEpsilon {
		fd := 0.5 * g.AirDensity * g.FrontalArea() * g.DragCoefficient * v2
		fx = -fd * vx / v
		fy = -fd * vy / v
	}
	fy -= g.CargoMass * g.Gravity

	return state{vx, fx / g.CargoMass, vy, fy / g.CargoMass}
}
