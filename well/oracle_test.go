package well

import (
	"geowell/fluid"
)

// liquid is an incompressible fluid with constant properties and h = cp·T
type liquid struct {
	rho, mu, cp float64
}

var water = liquid{rho: 1000, mu: 1e-3, cp: 4000}

func (l liquid) Has(name string) error {
	if name != "liquid" {
		return &fluid.LookupError{Fluid: name, Err: fluid.ErrUnknownFluid}
	}
	return nil
}

func (l liquid) state(name string, p, T float64) (fluid.State, error) {
	if err := l.Has(name); err != nil {
		return fluid.State{}, err
	}
	if p <= 0 {
		return fluid.State{}, &fluid.LookupError{Fluid: name, Inputs: "P", A: p, Err: fluid.ErrOutOfRange}
	}
	return fluid.State{Fluid: name, P: p, T: T, H: l.cp * T, Rho: l.rho, Cp: l.cp, Mu: l.mu, Q: -1}, nil
}

func (l liquid) StateFromPT(name string, p, T float64) (fluid.State, error) {
	return l.state(name, p, T)
}

func (l liquid) StateFromPh(name string, p, h float64) (fluid.State, error) {
	return l.state(name, p, h/l.cp)
}

func (l liquid) StateFromPS(name string, p, s float64) (fluid.State, error) {
	return fluid.State{}, fluid.ErrOutOfRange
}

func (l liquid) StateFromTQ(name string, T, q float64) (fluid.State, error) {
	return fluid.State{}, fluid.ErrOutOfRange
}

func (l liquid) StateFromPQ(name string, p, q float64) (fluid.State, error) {
	return fluid.State{}, fluid.ErrOutOfRange
}

func (l liquid) Critical(name string) (float64, float64, error) {
	return 0, 0, fluid.ErrOutOfRange
}
