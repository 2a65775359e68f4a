package solver

import (
	"math"

	"github.com/shotlab/cargoshot/pkg/core"
)

// speedSquared returns the drag-free required-speed model for a shot from
// start through target: the squared launch speed at which a projectile
// launched at the given angle passes exactly through the target point,
//
//	v² = (g/2) · ((x1−x0)/cos a)² / (y0 − y1 + (x1−x0)·tan a)
//
// The denominator vanishes at the angle whose parabola is tangent to the
// line through both points; beyond it the model has no physical solution
// and the returned function reports ok=false.
func speedSquared(gravity float64, start, target core.Position2D) func(angle float64) (v2 float64, ok bool) {
	dx := target.X - start.X
	dy := start.Y - target.Y

	return func(angle float64) (float64, bool) {
		denom := dy + dx*math.Tan(angle)
		if denom <= 0 {
			return 0, false
		}
		run := dx / math.Cos(angle)
		return 0.5 * gravity * run * run / denom, true
	}
}
