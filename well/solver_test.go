package well

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geowell/fluid"
	"geowell/formation"
	"geowell/model"
)

func newLiquidSolver(t *testing.T, vertical, horizontal, radius, T, Te, elapsed, massFlow, gradient float64, opts ...Option) *Solver {
	t.Helper()
	g, err := NewGeometry(vertical, horizontal, radius)
	require.NoError(t, err)
	st, err := NewInitialState(water, "liquid", 30e6, T, Te)
	require.NoError(t, err)
	p, err := NewParameters(50e-6, elapsed, massFlow, gradient)
	require.NoError(t, err)
	s, err := NewSolver(formation.Default(), water, g, st, p, opts...)
	require.NoError(t, err)
	return s
}

func TestNotSolved(t *testing.T) {
	s := newLiquidSolver(t, 1000, 0, 0.1, 60, 60, model.SecondsPerYear, 10, 0.03)

	_, err := s.EndPressure()
	assert.ErrorIs(t, err, ErrNotSolved)
	_, err = s.EndTemperature()
	assert.ErrorIs(t, err, ErrNotSolved)
	_, err = s.EndEnthalpy()
	assert.ErrorIs(t, err, ErrNotSolved)
	_, err = s.Solution()
	assert.ErrorIs(t, err, ErrNotSolved)

	_, err = s.ComputeSolution()
	require.NoError(t, err)
	_, err = s.EndPressure()
	assert.NoError(t, err)

	// a new input drops the solution
	p := s.Parameters()
	p.ElapsedTime *= 2
	require.NoError(t, s.SetParameters(p))
	_, err = s.EndTemperature()
	assert.ErrorIs(t, err, ErrNotSolved)

	// an invalid input keeps the solver as it was
	_, err = s.ComputeSolution()
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetGeometry(Geometry{Radius: -1}), ErrInvalidGeometry)
	_, err = s.EndEnthalpy()
	assert.NoError(t, err)
}

func TestNewSolverOptions(t *testing.T) {
	g, _ := NewGeometry(1000, 0, 0.1)
	st, _ := NewInitialState(water, "liquid", 30e6, 60, 60)
	p, _ := NewParameters(0, 1, 1, 0)

	for _, opt := range []Option{WithSegments(0), WithTolerance(0), WithMaxIterations(0)} {
		_, err := NewSolver(formation.Default(), water, g, st, p, opt)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	}

	st.Fluid = "brine"
	_, err := NewSolver(formation.Default(), water, g, st, p)
	assert.ErrorIs(t, err, fluid.ErrUnknownFluid)

	// one second after start the formation takes up far more heat than the flow carries
	cold, err := NewInitialState(water, "liquid", 30e6, 20, 60)
	require.NoError(t, err)
	s, err := NewSolver(formation.Default(), water, g, cold, p, WithSegments(7))
	require.NoError(t, err)
	sol, err := s.ComputeSolution()
	require.NoError(t, err)
	assert.Len(t, sol.Segments, 7)
}

func TestEntryStateMatchesFluid(t *testing.T) {
	g, _ := NewGeometry(1000, 0, 0.1)
	p, _ := NewParameters(50e-6, model.SecondsPerYear, 10, 0.03)
	st, err := NewInitialState(water, "liquid", 30e6, 60, 60)
	require.NoError(t, err)

	warm := st
	warm.Temperature += 5
	_, err = NewSolver(formation.Default(), water, g, warm, p)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	s, err := NewSolver(formation.Default(), water, g, st, p)
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetInitialState(InitialState{Fluid: "liquid", Pressure: 30e6, Enthalpy: 1e5}), ErrInvalidParameter)
	assert.Equal(t, st, s.InitialState())
}

// An entry enthalpy left over from another fluid is rejected
func TestEntryEnthalpyOfAnotherFluid(t *testing.T) {
	lib := fluid.NewLibrary()
	g, _ := NewGeometry(2500, 0, 0.205)
	st, err := NewInitialState(lib, "water", 25e6, 97, 102.5)
	require.NoError(t, err)
	p, _ := NewParameters(55e-6, 10*model.SecondsPerYear, 136, -0.035)
	s, err := NewSolver(formation.Default(), lib, g, st, p)
	require.NoError(t, err)

	stale := st
	stale.Fluid = "CO2"
	require.Error(t, s.SetInitialState(stale))
	assert.Equal(t, "water", s.InitialState().Fluid)

	fresh, err := NewInitialState(lib, "CO2", st.Pressure, st.Temperature, st.FormationTemperature)
	require.NoError(t, err)
	require.NoError(t, s.SetInitialState(fresh))
}

// With constant density and viscosity the elevation term is exactly ±ρgL and the
// friction loss does not depend on the direction.
func TestGravityInversion(t *testing.T) {
	const (
		depth    = 2000.0
		radius   = 0.1
		massFlow = 30.0
	)
	up := newLiquidSolver(t, depth, 0, radius, 80, 80, model.SecondsPerYear, massFlow, 0.03)
	down := newLiquidSolver(t, -depth, 0, radius, 80, 80, model.SecondsPerYear, massFlow, 0.03)

	upSol, err := up.ComputeSolution()
	require.NoError(t, err)
	downSol, err := down.ComputeSolution()
	require.NoError(t, err)

	dpUp := upSol.EndPressure - 30e6
	dpDown := downSol.EndPressure - 30e6

	v := massFlow / (water.rho * math.Pi * radius * radius)
	re := water.rho * v * 2 * radius / water.mu
	friction := frictionFactor(re, 50e-6/(2*radius)) * depth / (2 * radius) * water.rho * v * v / 2

	assert.InDelta(t, 2*water.rho*model.Gravity*depth, dpDown-dpUp, 1e-4)
	assert.InDelta(t, -2*friction, dpDown+dpUp, 1e-4)
	assert.Greater(t, friction, 0.0)
}

// On a horizontal leg the fluid temperature relaxes towards the formation, by a
// factor 1/(1+x) per segment, which tends to the exponential.
func TestHorizontalHeatExchange(t *testing.T) {
	const (
		length   = 2000.0
		radius   = 0.1
		massFlow = 1.0
		T0       = 40.0
		Te       = 90.0
		elapsed  = 10 * model.SecondsPerYear
	)
	s := newLiquidSolver(t, 0, length, radius, T0, Te, elapsed, massFlow, 0.03)
	sol, err := s.ComputeSolution()
	require.NoError(t, err)

	rock := formation.Default().Properties()
	conductance := 2 * math.Pi * rock.Conductivity * heatFlux(rock.Diffusivity()*elapsed/(radius*radius))
	x := conductance * length / DefaultSegments / (massFlow * water.cp)
	expected := Te - (Te-T0)*math.Pow(1+x, -DefaultSegments)

	assert.InDelta(t, expected, sol.EndTemperature, 1e-9)
	assert.InDelta(t, Te-(Te-T0)*math.Exp(-x*DefaultSegments), sol.EndTemperature, 0.2)
	assert.Greater(t, sol.EndTemperature, T0)
	for _, seg := range sol.Segments {
		assert.Equal(t, HorizontalLeg, seg.Leg)
		assert.Equal(t, 0.0, seg.Elevation)
		assert.Equal(t, Te, seg.FormationTemperature)
		assert.Greater(t, seg.HeatFlow, 0.0)
	}
	assert.InDelta(t, massFlow*water.cp*(sol.EndTemperature-T0), sol.HeatGain(), 1e-6)
}

func TestDoublingElapsedTimeReducesHeat(t *testing.T) {
	for _, vertical := range []float64{2500, -2500} {
		var last float64
		for i, years := range []float64{1, 2, 4, 8} {
			s := newLiquidSolver(t, vertical, 500, 0.15, 60, 100, years*model.SecondsPerYear, 20, 0)
			sol, err := s.ComputeSolution()
			require.NoError(t, err)
			q := math.Abs(sol.HeatGain())
			if i > 0 {
				assert.Less(t, q, last, "vertical %g, %g years", vertical, years)
			}
			last = q
		}
	}
}

func TestFormationTemperatureFollowsDepth(t *testing.T) {
	s := newLiquidSolver(t, -1000, 200, 0.1, 20, 15, model.SecondsPerYear, 10, 0.03, WithSegments(10))
	sol, err := s.ComputeSolution()
	require.NoError(t, err)
	require.Len(t, sol.Segments, 20)

	// the first segment ends 100 m deep
	assert.InDelta(t, 15+0.03*100, sol.Segments[0].FormationTemperature, 1e-12)
	assert.InDelta(t, -1000, sol.Segments[9].Elevation, 1e-9)
	// held at the value at the bottom of the vertical leg
	for _, seg := range sol.Segments[10:] {
		assert.InDelta(t, 15+0.03*1000, seg.FormationTemperature, 1e-9)
	}
	assert.InDelta(t, 1200, sol.Segments[19].Distance, 1e-9)
}

func TestIdempotentSolve(t *testing.T) {
	lib := fluid.NewLibrary()
	g, _ := NewGeometry(-2000, 500, 0.2)
	st, err := NewInitialState(lib, "water", 5e6, 30, 15)
	require.NoError(t, err)
	p, _ := NewParameters(55e-6, 5*model.SecondsPerYear, 20, 0.04)
	s, err := NewSolver(formation.Default(), lib, g, st, p)
	require.NoError(t, err)

	first, err := s.ComputeSolution()
	require.NoError(t, err)
	second, err := s.ComputeSolution()
	require.NoError(t, err)
	assert.Equal(t, *first, *second)
}

func TestConvergenceError(t *testing.T) {
	s := newLiquidSolver(t, 1000, 0, 0.1, 60, 90, model.SecondsPerYear, 10, 0.03, WithMaxIterations(1))
	_, err := s.ComputeSolution()
	require.ErrorIs(t, err, ErrConvergence)

	var ce *ConvergenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, VerticalLeg, ce.Leg)
	assert.Equal(t, 0, ce.Segment)
	assert.Equal(t, 1, ce.Iterations)

	_, err = s.Solution()
	assert.ErrorIs(t, err, ErrNotSolved)
}

func TestOracleErrorsPropagate(t *testing.T) {
	g, _ := NewGeometry(5000, 0, 0.1)
	st, _ := NewInitialState(water, "liquid", 1e6, 60, 60)
	p, _ := NewParameters(50e-6, model.SecondsPerYear, 10, 0.03)
	s, err := NewSolver(formation.Default(), water, g, st, p)
	require.NoError(t, err)

	// 5 km of water column is far more than 1 MPa
	_, err = s.ComputeSolution()
	require.ErrorIs(t, err, fluid.ErrOutOfRange)
	// returned as the oracle built it
	le, ok := err.(*fluid.LookupError)
	require.True(t, ok, "%T", err)
	assert.Equal(t, "liquid", le.Fluid)

	_, err = s.EndPressure()
	assert.ErrorIs(t, err, ErrNotSolved)
}

func TestInvalidFormation(t *testing.T) {
	g, _ := NewGeometry(1000, 0, 0.1)
	st, _ := NewInitialState(water, "liquid", 30e6, 60, 60)
	p, _ := NewParameters(50e-6, model.SecondsPerYear, 10, 0.03)
	s, err := NewSolver(formation.Static{Density: 2650, HeatCapacity: 1000, Gravity: 9.81}, water, g, st, p)
	require.NoError(t, err)
	_, err = s.ComputeSolution()
	assert.ErrorIs(t, err, formation.ErrInvalidProperties)
}

// Shortly after start the heat exchange dominates every segment. The fluid follows
// the formation from below without overshooting it.
func TestShortElapsedTime(t *testing.T) {
	s := newLiquidSolver(t, -1000, 0, 0.1, 20, 60, 60, 1, 0.03, WithSegments(10))
	sol, err := s.ComputeSolution()
	require.NoError(t, err)

	prev := 20.0
	for _, seg := range sol.Segments {
		assert.Greater(t, seg.Temperature, prev)
		assert.Less(t, seg.Temperature, seg.FormationTemperature)
		assert.LessOrEqual(t, seg.Iterations, 5)
		prev = seg.Temperature
	}

	lib := fluid.NewLibrary()
	g, _ := NewGeometry(-1000, 0, 0.1)
	st, err := NewInitialState(lib, "water", 5e6, 20, 15)
	require.NoError(t, err)
	last := 0.0
	for _, elapsed := range []float64{3600, 600, 60} {
		p, _ := NewParameters(55e-6, elapsed, 1, 0.03)
		s, err := NewSolver(formation.Default(), lib, g, st, p, WithSegments(10))
		require.NoError(t, err)
		sol, err := s.ComputeSolution()
		require.NoError(t, err, "%g s", elapsed)
		// closer to the bottom hole formation temperature the earlier
		assert.Greater(t, sol.EndTemperature, last, "%g s", elapsed)
		assert.Less(t, sol.EndTemperature, 15+0.03*1000)
		last = sol.EndTemperature
	}
}
