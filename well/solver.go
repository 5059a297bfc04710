// Package well computes the pressure, temperature and enthalpy of a fluid flowing
// through a vertical and horizontal well while it exchanges heat with the formation.
package well

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"geowell/fluid"
	"geowell/formation"
)

const (
	DefaultSegments      = 100
	DefaultTolerance     = 1e-9
	DefaultMaxIterations = 50

	// largest mismatch between the entry temperature and the one of the entry
	// enthalpy [K]
	entryTolerance = 1e-3
)

// Segment is the trace of one segment of the march, taken at the segment end.
type Segment struct {
	Leg                  Leg
	Index                int
	Distance             float64 // path length at the segment end [m]
	Elevation            float64 // elevation gained at the segment end [m]
	Pressure             float64 // [Pa]
	Enthalpy             float64 // [J/kg]
	Temperature          float64 // [°C]
	Density              float64 // [kg/m³]
	Viscosity            float64 // [Pa·s]
	FormationTemperature float64 // [°C]
	HeatFlow             float64 // heat received from the formation [W]
	FrictionLoss         float64 // [Pa]
	Iterations           int
}

// Solution of one solve
type Solution struct {
	Fluid          string
	EndPressure    float64 // [Pa]
	EndTemperature float64 // [°C]
	EndEnthalpy    float64 // [J/kg]
	Segments       []Segment
}

// HeatGain returns the total heat received from the formation [W]
func (s *Solution) HeatGain() float64 {
	var q float64
	for _, seg := range s.Segments {
		q += seg.HeatFlow
	}
	return q
}

// Option configures a Solver
type Option func(s *Solver)

// WithSegments sets the number of segments per leg
func WithSegments(n int) Option {
	return func(s *Solver) { s.segments = n }
}

// WithTolerance sets the relative tolerance of the segment fixed point
func WithTolerance(tol float64) Option {
	return func(s *Solver) { s.tolerance = tol }
}

// WithMaxIterations bounds the segment fixed point
func WithMaxIterations(n int) Option {
	return func(s *Solver) { s.maxIterations = n }
}

// WithLogger sets the log entry of the solver
func WithLogger(entry *log.Entry) Option {
	return func(s *Solver) { s.log = entry }
}

// Solver marches the fluid state along the well path segment by segment.
// A Solver must not be used by more than one goroutine at a time.
type Solver struct {
	store  formation.Store
	oracle fluid.Oracle

	geometry Geometry
	state    InitialState
	params   Parameters

	segments      int
	tolerance     float64
	maxIterations int
	log           *log.Entry

	solution *Solution
}

// NewSolver returns a fully configured solver
func NewSolver(store formation.Store, oracle fluid.Oracle, geometry Geometry, state InitialState, params Parameters, opts ...Option) (*Solver, error) {
	s := &Solver{
		store:         store,
		oracle:        oracle,
		segments:      DefaultSegments,
		tolerance:     DefaultTolerance,
		maxIterations: DefaultMaxIterations,
		log:           log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	switch {
	case s.segments < 1:
		return nil, &ParameterError{Field: "segments", Value: float64(s.segments), Reason: "must be at least 1"}
	case !(s.tolerance > 0):
		return nil, &ParameterError{Field: "tolerance", Value: s.tolerance, Reason: "must be positive"}
	case s.maxIterations < 1:
		return nil, &ParameterError{Field: "maxIterations", Value: float64(s.maxIterations), Reason: "must be at least 1"}
	}
	if err := s.SetGeometry(geometry); err != nil {
		return nil, err
	}
	if err := s.SetInitialState(state); err != nil {
		return nil, err
	}
	if err := s.SetParameters(params); err != nil {
		return nil, err
	}
	return s, nil
}

// SetGeometry replaces the geometry and drops the previous solution
func (s *Solver) SetGeometry(g Geometry) error {
	if err := g.validate(); err != nil {
		return err
	}
	s.geometry, s.solution = g, nil
	return nil
}

// SetInitialState replaces the entry state and drops the previous solution. The
// entry enthalpy must give back the entry temperature for the state's fluid.
func (s *Solver) SetInitialState(state InitialState) error {
	if err := checkEntry(state.Pressure, state.FormationTemperature); err != nil {
		return err
	}
	if err := s.oracle.Has(state.Fluid); err != nil {
		return err
	}
	st, err := s.oracle.StateFromPh(state.Fluid, state.Pressure, state.Enthalpy)
	if err != nil {
		return err
	}
	if math.Abs(st.T-state.Temperature) > entryTolerance {
		return &ParameterError{
			Field:  "enthalpy",
			Value:  state.Enthalpy,
			Reason: fmt.Sprintf("gives %.3f °C for %s, not the entry temperature %.3f °C", st.T, state.Fluid, state.Temperature),
		}
	}
	s.state, s.solution = state, nil
	return nil
}

// SetParameters replaces the operating parameters and drops the previous solution
func (s *Solver) SetParameters(p Parameters) error {
	if err := p.validate(); err != nil {
		return err
	}
	s.params, s.solution = p, nil
	return nil
}

func (s *Solver) Geometry() Geometry { return s.geometry }

func (s *Solver) InitialState() InitialState { return s.state }

func (s *Solver) Parameters() Parameters { return s.params }

// march carries the running state between segments
type march struct {
	pressure  float64
	enthalpy  float64
	elevation float64
	distance  float64
}

// closure holds the per-solve constants of the segment balance
type closure struct {
	fluid       string
	conductance float64 // 2πk·f(tD) [W/(m·K)]
	massFlow    float64
	diameter    float64
	area        float64
	roughness   float64
	gravity     float64
	entryTemp   float64
	gradient    float64
}

// formationTemperature at a signed elevation; the gradient applies per metre of depth
func (c *closure) formationTemperature(elevation float64) float64 {
	return c.entryTemp - c.gradient*elevation
}

// ComputeSolution marches the entry state through the vertical leg and then the
// horizontal leg. On failure the solver is left unsolved.
func (s *Solver) ComputeSolution() (*Solution, error) {
	s.solution = nil
	start := time.Now()

	rock := s.store.Properties()
	if err := rock.Validate(); err != nil {
		return nil, err
	}
	g := s.geometry
	c := &closure{
		fluid:       s.state.Fluid,
		conductance: 2 * math.Pi * rock.Conductivity * heatFlux(rock.Diffusivity()*s.params.ElapsedTime/(g.Radius*g.Radius)),
		massFlow:    math.Abs(s.params.MassFlowRate),
		diameter:    g.diameter(),
		area:        g.area(),
		roughness:   s.params.Roughness / g.diameter(),
		gravity:     rock.Gravity,
		entryTemp:   s.state.FormationTemperature,
		gradient:    s.params.GeothermalGradient,
	}

	legs := []struct {
		leg    Leg
		length float64
		rise   float64 // elevation gained per metre of path
	}{
		{VerticalLeg, g.Depth, 1},
		{HorizontalLeg, g.HorizontalLength, 0},
	}
	if g.Direction == Injection {
		legs[0].rise = -1
	}

	m := march{pressure: s.state.Pressure, enthalpy: s.state.Enthalpy}
	trace := make([]Segment, 0, 2*s.segments)
	for _, l := range legs {
		if l.length == 0 {
			continue
		}
		dL := l.length / float64(s.segments)
		for i := 0; i < s.segments; i++ {
			seg, err := s.segment(c, &m, l.leg, i, dL, l.rise*dL)
			if err != nil {
				s.log.WithFields(log.Fields{
					"fluid":   c.fluid,
					"leg":     l.leg,
					"segment": i,
				}).Warn("well march failed: ", err)
				return nil, err
			}
			trace = append(trace, seg)
		}
	}

	end, err := s.oracle.StateFromPh(c.fluid, m.pressure, m.enthalpy)
	if err != nil {
		return nil, err
	}
	s.solution = &Solution{
		Fluid:          c.fluid,
		EndPressure:    m.pressure,
		EndTemperature: end.T,
		EndEnthalpy:    m.enthalpy,
		Segments:       trace,
	}
	s.log.WithFields(log.Fields{
		"fluid":           c.fluid,
		"direction":       g.Direction,
		"length":          g.TotalLength(),
		"segments":        len(trace),
		"end_pressure":    m.pressure,
		"end_temperature": end.T,
		"cost":            time.Since(start),
	}).Debug("well solved")
	return s.solution, nil
}

// segment advances m over one segment of length dL rising dz. The balances are
// evaluated at the segment end state, which is found by fixed point iteration.
// The heat term is linearised in the enthalpy through the heat capacity so that a
// strong coupling to the formation does not stall the iteration.
func (s *Solver) segment(c *closure, m *march, leg Leg, index int, dL, dz float64) (Segment, error) {
	te := c.formationTemperature(m.elevation + dz)
	coupling := c.conductance * dL / c.massFlow // [J/(kg·K)]
	p, h := m.pressure, m.enthalpy
	var (
		st       fluid.State
		friction float64
		heat     float64
		residual float64
	)
	for it := 1; it <= s.maxIterations; it++ {
		var err error
		st, err = s.oracle.StateFromPh(c.fluid, p, h)
		if err != nil {
			return Segment{}, err
		}
		v := c.massFlow / (st.Rho * c.area)
		friction = frictionFactor(st.Rho*v*c.diameter/st.Mu, c.roughness) * dL / c.diameter * st.Rho * v * v / 2
		heat = c.conductance * (te - st.T) * dL

		pn := m.pressure - st.Rho*c.gravity*dz - friction
		hn := m.enthalpy + heat/c.massFlow - c.gravity*dz
		// Newton step on the energy balance, dT/dh = 1/cp; T does not move with h
		// inside the dome
		if st.Cp > 0 {
			hn = h + (hn-h)/(1+coupling/st.Cp)
		}
		residual = math.Max(math.Abs(pn-p)/math.Max(math.Abs(pn), 1), math.Abs(hn-h)/math.Max(math.Abs(hn), 1))
		p, h = pn, hn
		if residual <= s.tolerance {
			m.pressure, m.enthalpy = p, h
			m.elevation += dz
			m.distance += dL
			return Segment{
				Leg:                  leg,
				Index:                index,
				Distance:             m.distance,
				Elevation:            m.elevation,
				Pressure:             p,
				Enthalpy:             h,
				Temperature:          st.T,
				Density:              st.Rho,
				Viscosity:            st.Mu,
				FormationTemperature: te,
				HeatFlow:             heat,
				FrictionLoss:         friction,
				Iterations:           it,
			}, nil
		}
	}
	return Segment{}, &ConvergenceError{Leg: leg, Segment: index, Iterations: s.maxIterations, Residual: residual}
}

// Solution returns the last solution
func (s *Solver) Solution() (*Solution, error) {
	if s.solution == nil {
		return nil, ErrNotSolved
	}
	return s.solution, nil
}

func (s *Solver) EndPressure() (float64, error) {
	if s.solution == nil {
		return 0, ErrNotSolved
	}
	return s.solution.EndPressure, nil
}

func (s *Solver) EndTemperature() (float64, error) {
	if s.solution == nil {
		return 0, ErrNotSolved
	}
	return s.solution.EndTemperature, nil
}

func (s *Solver) EndEnthalpy() (float64, error) {
	if s.solution == nil {
		return 0, ErrNotSolved
	}
	return s.solution.EndEnthalpy, nil
}
