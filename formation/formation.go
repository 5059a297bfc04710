// Package formation provides the thermal properties of the rock around a well.
package formation

import (
	"errors"
	"fmt"
	"math"

	"geowell/model"
)

// ErrInvalidProperties is returned by Validate
var ErrInvalidProperties = errors.New("invalid formation properties")

// Properties of the formation
type Properties struct {
	Conductivity       float64 // thermal conductivity [W/(m·K)]
	Density            float64 // [kg/m³]
	HeatCapacity       float64 // specific heat [J/(kg·K)]
	SurfaceTemperature float64 // [°C]
	Gravity            float64 // [m/s²]
}

// Diffusivity returns the thermal diffusivity k/(ρc) [m²/s]
func (p Properties) Diffusivity() float64 {
	return p.Conductivity / (p.Density * p.HeatCapacity)
}

// Validate checks that all transport properties are positive and finite
func (p Properties) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"conductivity", p.Conductivity},
		{"density", p.Density},
		{"heat capacity", p.HeatCapacity},
		{"gravity", p.Gravity},
	} {
		if !(v.value > 0) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%w: %s = %g must be positive", ErrInvalidProperties, v.name, v.value)
		}
	}
	if math.IsNaN(p.SurfaceTemperature) || math.IsInf(p.SurfaceTemperature, 0) {
		return fmt.Errorf("%w: surface temperature = %g", ErrInvalidProperties, p.SurfaceTemperature)
	}
	return nil
}

// Store supplies formation properties; it is read once per solve
type Store interface {
	Properties() Properties
}

// Static is a Store with fixed properties
type Static Properties

func (s Static) Properties() Properties { return Properties(s) }

// Default returns the properties of a generic sandstone
func Default() Static {
	return Static{
		Conductivity:       2.1,
		Density:            2650,
		HeatCapacity:       1000,
		SurfaceTemperature: 15,
		Gravity:            model.Gravity,
	}
}
