package well

import (
	"math"

	"geowell/fluid"
)

// Direction of the flow along the vertical leg
type Direction int

const (
	Production Direction = iota // fluid rises to the surface
	Injection                   // fluid descends
)

func (d Direction) String() string {
	if d == Injection {
		return "injection"
	}
	return "production"
}

// Leg is a straight part of the well path
type Leg int

const (
	VerticalLeg Leg = iota
	HorizontalLeg
)

func (l Leg) String() string {
	if l == HorizontalLeg {
		return "horizontal"
	}
	return "vertical"
}

// Geometry is the path of one well: a vertical leg followed by a horizontal leg
type Geometry struct {
	Direction        Direction
	Depth            float64 // length of the vertical leg [m]
	HorizontalLength float64 // [m]
	Radius           float64 // inner radius [m]
}

// NewGeometry builds a Geometry from a signed vertical length: positive for a
// production well, negative for an injection well.
func NewGeometry(verticalLength, horizontalLength, radius float64) (Geometry, error) {
	g := Geometry{
		Direction:        Production,
		Depth:            math.Abs(verticalLength),
		HorizontalLength: horizontalLength,
		Radius:           radius,
	}
	if verticalLength < 0 {
		g.Direction = Injection
	}
	if math.IsNaN(verticalLength) || math.IsInf(verticalLength, 0) {
		return Geometry{}, &GeometryError{Field: "verticalLength", Value: verticalLength, Reason: "must be finite"}
	}
	return g, g.validate()
}

func (g Geometry) validate() error {
	switch {
	case !(g.Radius > 0) || math.IsInf(g.Radius, 0):
		return &GeometryError{Field: "radius", Value: g.Radius, Reason: "must be positive"}
	case !(g.HorizontalLength >= 0) || math.IsInf(g.HorizontalLength, 0):
		return &GeometryError{Field: "horizontalLength", Value: g.HorizontalLength, Reason: "must not be negative"}
	case !(g.Depth >= 0) || math.IsInf(g.Depth, 0):
		return &GeometryError{Field: "depth", Value: g.Depth, Reason: "must not be negative"}
	case g.Direction != Production && g.Direction != Injection:
		return &GeometryError{Field: "direction", Value: float64(g.Direction), Reason: "is unknown"}
	}
	return nil
}

// VerticalLength returns the signed vertical length, negative for injection
func (g Geometry) VerticalLength() float64 {
	if g.Direction == Injection {
		return -g.Depth
	}
	return g.Depth
}

// TotalLength returns the length of the flow path
func (g Geometry) TotalLength() float64 {
	return g.Depth + g.HorizontalLength
}

// EntryFormationTemperature continues the surface temperature of the formation down
// to the well entry. A production well enters at the bottom of its vertical leg.
func (g Geometry) EntryFormationTemperature(surface, gradient float64) float64 {
	if g.Direction == Production {
		return surface + gradient*g.Depth
	}
	return surface
}

func (g Geometry) diameter() float64 { return 2 * g.Radius }

func (g Geometry) area() float64 { return math.Pi * g.Radius * g.Radius }

// InitialState is the fluid state where it enters the well
type InitialState struct {
	Fluid                string
	Pressure             float64 // [Pa]
	Temperature          float64 // [°C]
	Enthalpy             float64 // [J/kg]
	FormationTemperature float64 // formation temperature at the entry [°C]
}

// NewInitialState resolves the entry enthalpy from pressure and temperature
func NewInitialState(oracle fluid.Oracle, fluidName string, pressure, temperature, formationTemperature float64) (InitialState, error) {
	if err := checkEntry(pressure, formationTemperature); err != nil {
		return InitialState{}, err
	}
	st, err := oracle.StateFromPT(fluidName, pressure, temperature)
	if err != nil {
		return InitialState{}, err
	}
	return InitialState{
		Fluid:                fluidName,
		Pressure:             pressure,
		Temperature:          st.T,
		Enthalpy:             st.H,
		FormationTemperature: formationTemperature,
	}, nil
}

// NewInitialStatePh starts from pressure and enthalpy, e.g. the exit of another well
func NewInitialStatePh(oracle fluid.Oracle, fluidName string, pressure, enthalpy, formationTemperature float64) (InitialState, error) {
	if err := checkEntry(pressure, formationTemperature); err != nil {
		return InitialState{}, err
	}
	st, err := oracle.StateFromPh(fluidName, pressure, enthalpy)
	if err != nil {
		return InitialState{}, err
	}
	return InitialState{
		Fluid:                fluidName,
		Pressure:             pressure,
		Temperature:          st.T,
		Enthalpy:             enthalpy,
		FormationTemperature: formationTemperature,
	}, nil
}

func checkEntry(pressure, formationTemperature float64) error {
	if !(pressure > 0) || math.IsInf(pressure, 0) {
		return &ParameterError{Field: "pressure", Value: pressure, Reason: "must be positive"}
	}
	if math.IsNaN(formationTemperature) || math.IsInf(formationTemperature, 0) {
		return &ParameterError{Field: "formationTemperature", Value: formationTemperature, Reason: "must be finite"}
	}
	return nil
}

// Parameters are the operating conditions of one solve
type Parameters struct {
	Roughness          float64 // absolute pipe roughness [m]
	ElapsedTime        float64 // time since the flow started [s]
	MassFlowRate       float64 // [kg/s], only the magnitude is used
	GeothermalGradient float64 // [°C/m] per metre of depth
}

func NewParameters(roughness, elapsedTime, massFlowRate, geothermalGradient float64) (Parameters, error) {
	p := Parameters{
		Roughness:          roughness,
		ElapsedTime:        elapsedTime,
		MassFlowRate:       massFlowRate,
		GeothermalGradient: geothermalGradient,
	}
	return p, p.validate()
}

func (p Parameters) validate() error {
	switch {
	case !(p.ElapsedTime > 0) || math.IsInf(p.ElapsedTime, 0):
		return &ParameterError{Field: "elapsedTime", Value: p.ElapsedTime, Reason: "must be positive"}
	case p.MassFlowRate == 0 || math.IsNaN(p.MassFlowRate) || math.IsInf(p.MassFlowRate, 0):
		return &ParameterError{Field: "massFlowRate", Value: p.MassFlowRate, Reason: "must be finite and non-zero"}
	case !(p.Roughness >= 0) || math.IsInf(p.Roughness, 0):
		return &ParameterError{Field: "roughness", Value: p.Roughness, Reason: "must not be negative"}
	case math.IsNaN(p.GeothermalGradient) || math.IsInf(p.GeothermalGradient, 0):
		return &ParameterError{Field: "geothermalGradient", Value: p.GeothermalGradient, Reason: "must be finite"}
	}
	return nil
}
