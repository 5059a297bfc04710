// Package fluid implements the property oracle: given two independent intensive
// properties and a fluid name it returns the full thermodynamic state.
//
// Units at the Oracle boundary:
//   P   [Pa]
//   T   [°C]
//   H   [J/kg]
//   S   [J/(kg·K)]
//   Rho [kg/m³]
//   Cp  [J/(kg·K)]
//   Mu  [Pa·s]
package fluid

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"geowell/model"
)

var (
	// ErrUnknownFluid is returned for fluid names that are not in the library
	ErrUnknownFluid = errors.New("unknown fluid")

	// ErrOutOfRange is returned for inputs outside the valid envelope of a fluid model
	ErrOutOfRange = errors.New("state out of range")
)

// State holds all properties of a fluid at one point. Q is the vapour quality in the
// two-phase region and -1 for single phase states; Cp is 0 in the two-phase region.
type State struct {
	Fluid string
	P     float64
	T     float64
	H     float64
	S     float64
	Rho   float64
	Cp    float64
	Mu    float64
	Q     float64
}

// Oracle returns fluid states from pairs of independent properties
type Oracle interface {
	Has(fluid string) error
	StateFromPT(fluid string, p, T float64) (State, error)
	StateFromPh(fluid string, p, h float64) (State, error)
	StateFromPS(fluid string, p, s float64) (State, error)
	StateFromTQ(fluid string, T, q float64) (State, error)
	StateFromPQ(fluid string, p, q float64) (State, error)
	Critical(fluid string) (Tc, Pc float64, err error)
}

// Model is an equation of state of one fluid. All temperatures of a Model are in
// Kelvin, including State.T; the Library converts to °C.
type Model interface {
	Name() string
	Critical() (Tc, Pc float64)
	PT(p, T float64) (State, error)
	Ph(p, h float64) (State, error)
	PS(p, s float64) (State, error)
	TQ(T, q float64) (State, error)
	PQ(p, q float64) (State, error)
}

// LookupError describes a failed property lookup
type LookupError struct {
	Fluid  string
	Inputs string // e.g. "P,h"
	A, B   float64
	Reason string
	Err    error
}

func (e *LookupError) Error() string {
	if e.Inputs == "" {
		return fmt.Sprintf("%s: %s: %s", e.Err, e.Fluid, e.Reason)
	}
	return fmt.Sprintf("%s: %s(%s = %g, %g): %s", e.Err, e.Fluid, e.Inputs, e.A, e.B, e.Reason)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func outOfRange(fluid, inputs string, a, b float64, format string, args ...interface{}) error {
	return &LookupError{
		Fluid:  fluid,
		Inputs: inputs,
		A:      a,
		B:      b,
		Reason: fmt.Sprintf(format, args...),
		Err:    ErrOutOfRange,
	}
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// aliases maps alternative names to allocator keys
var aliases = map[string]string{}

// Library is the default Oracle; it owns one instance of every registered model
type Library struct {
	models map[string]Model
}

// NewLibrary allocates all registered fluid models
func NewLibrary() *Library {
	l := &Library{models: make(map[string]Model, len(allocators))}
	for name, allocator := range allocators {
		l.models[name] = allocator()
	}
	return l
}

// Names returns the sorted names of the available fluids
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.models))
	for name := range l.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Library) find(fluid string) (Model, error) {
	key := strings.ToLower(strings.TrimSpace(fluid))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	m, ok := l.models[key]
	if !ok {
		return nil, &LookupError{Fluid: fluid, Reason: "fluid is not available in the library", Err: ErrUnknownFluid}
	}
	return m, nil
}

func (l *Library) Has(fluid string) error {
	_, err := l.find(fluid)
	return err
}

func (l *Library) StateFromPT(fluid string, p, T float64) (State, error) {
	m, err := l.find(fluid)
	if err != nil {
		return State{}, err
	}
	return finish(fluid)(m.PT(p, T+model.Kelvin))
}

func (l *Library) StateFromPh(fluid string, p, h float64) (State, error) {
	m, err := l.find(fluid)
	if err != nil {
		return State{}, err
	}
	return finish(fluid)(m.Ph(p, h))
}

func (l *Library) StateFromPS(fluid string, p, s float64) (State, error) {
	m, err := l.find(fluid)
	if err != nil {
		return State{}, err
	}
	return finish(fluid)(m.PS(p, s))
}

func (l *Library) StateFromTQ(fluid string, T, q float64) (State, error) {
	m, err := l.find(fluid)
	if err != nil {
		return State{}, err
	}
	return finish(fluid)(m.TQ(T+model.Kelvin, q))
}

func (l *Library) StateFromPQ(fluid string, p, q float64) (State, error) {
	m, err := l.find(fluid)
	if err != nil {
		return State{}, err
	}
	return finish(fluid)(m.PQ(p, q))
}

// Critical returns the critical temperature [°C] and pressure [Pa]
func (l *Library) Critical(fluid string) (Tc, Pc float64, err error) {
	m, err := l.find(fluid)
	if err != nil {
		return 0, 0, err
	}
	Tc, Pc = m.Critical()
	return Tc - model.Kelvin, Pc, nil
}

// finish converts a model state to the Oracle convention
func finish(fluid string) func(State, error) (State, error) {
	return func(st State, err error) (State, error) {
		if err != nil {
			return State{}, err
		}
		st.Fluid = fluid
		st.T -= model.Kelvin
		return st, nil
	}
}
