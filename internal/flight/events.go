package flight

import (
	"math"

	"github.com/shotlab/cargoshot/internal/geometry"
)

// eventFunc is a scalar function of the state whose zero crossing stops the
// integration. All three events are terminal; the first one triggered wins.
type eventFunc func(geometry.Geometry, state) float64

// hitGround fires when the cargo reaches the floor.
func hitGround(_ geometry.Geometry, s state) float64 {
	return s[2]
}

// hitRim fires when the cargo surface touches the rim structure. The
// proximity measure is the minimum of the horizontal distance past the near
// edge and the vertical distance below the rim height, offset by the cargo
// radius. It is a proxy, not a true distance-to-rectangle: it only goes to
// zero once the cargo is past the near edge plane and level with the rim.
func hitRim(g geometry.Geometry, s state) float64 {
	x, y := s[0], s[2]
	return math.Min(x+g.RimHalfWidth, g.RimHeight-y) + g.CargoRadius
}

// passedRim fires when the cargo crosses the far edge of the rim plane.
func passedRim(g geometry.Geometry, s state) float64 {
	return s[0] - g.RimHalfWidth
}

// terminalEvents in evaluation order. Order only breaks exact ties; the
// earliest in-step crossing decides which event terminates the flight.
var terminalEvents = []eventFunc{hitGround, hitRim, passedRim}
