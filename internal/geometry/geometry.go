// Package geometry defines the fixed physical and target parameters of the
// shot problem. A Geometry value is passed explicitly into every compute
// component so that concurrent evaluations never share mutable state.
package geometry

import (
	"errors"
	"math"

	"github.com/spf13/viper"
)

// ErrInvalidGeometry is returned when any physical parameter is not strictly positive.
var ErrInvalidGeometry = errors.New("invalid geometry: all parameters must be strictly positive")

// Geometry holds the physical constants of the rim and cargo. SI units.
type Geometry struct {
	Gravity         float64 `json:"gravity" mapstructure:"gravity"`
	RimHalfWidth    float64 `json:"rimHalfWidth" mapstructure:"rimHalfWidth"`
	RimHeight       float64 `json:"rimHeight" mapstructure:"rimHeight"`
	CargoRadius     float64 `json:"cargoRadius" mapstructure:"cargoRadius"`
	CargoMass       float64 `json:"cargoMass" mapstructure:"cargoMass"`
	DragCoefficient float64 `json:"dragCoefficient" mapstructure:"dragCoefficient"`
	AirDensity      float64 `json:"airDensity" mapstructure:"airDensity"`
}

// Default returns the reference geometry: a 42 inch rim opening at 72 inches,
// and a 0.21 kg cargo ball 15 cm in diameter.
func Default() Geometry {
	return Geometry{
		Gravity:         9.81,
		RimHalfWidth:    1.04 / 2,
		RimHeight:       1.83,
		CargoRadius:     0.15 / 2,
		CargoMass:       0.21,
		DragCoefficient: 0.23,
		AirDensity:      1.225,
	}
}

// FromViper builds a Geometry from the geometry.* configuration keys.
// Keys that were never set fall back to the defaults registered by config.Load.
func FromViper() Geometry {
	return Geometry{
		Gravity:         viper.GetFloat64("geometry.gravity"),
		RimHalfWidth:    viper.GetFloat64("geometry.rimWidth") / 2,
		RimHeight:       viper.GetFloat64("geometry.rimHeight"),
		CargoRadius:     viper.GetFloat64("geometry.cargoRadius"),
		CargoMass:       viper.GetFloat64("geometry.cargoMass"),
		DragCoefficient: viper.GetFloat64("geometry.dragCoefficient"),
		AirDensity:      viper.GetFloat64("geometry.airDensity"),
	}
}

// Validate checks that every parameter is strictly positive.
func (g Geometry) Validate() error {
	for _, v := range []float64{
		g.Gravity, g.RimHalfWidth, g.RimHeight,
		g.CargoRadius, g.CargoMass, g.DragCoefficient, g.AirDensity,
	} {
		if !(v > 0) || math.IsInf(v, 1) {
			return ErrInvalidGeometry
		}
	}
	return nil
}

// RimWidth returns the full rim opening width.
func (g Geometry) RimWidth() float64 {
	return 2 * g.RimHalfWidth
}

// FrontalArea returns the cargo's frontal area, derived from its radius.
func (g Geometry) FrontalArea() float64 {
	return math.Pi * g.CargoRadius * g.CargoRadius
}
