package well

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGeometry  = errors.New("invalid well geometry")
	ErrInvalidParameter = errors.New("invalid model parameter")
	ErrConvergence      = errors.New("segment iteration did not converge")
	ErrNotSolved        = errors.New("well has not been solved")
)

// GeometryError reports the offending geometry input
type GeometryError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%v: %s = %g %s", ErrInvalidGeometry, e.Field, e.Value, e.Reason)
}

func (e *GeometryError) Unwrap() error {
	return ErrInvalidGeometry
}

// ParameterError reports the offending model or solver parameter
type ParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%v: %s = %g %s", ErrInvalidParameter, e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// ConvergenceError is returned when the fixed point of one segment is not reached
type ConvergenceError struct {
	Leg        Leg
	Segment    int
	Iterations int
	Residual   float64 // relative change of the last iteration
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v: %s leg segment %d after %d iterations (residual %.3e)",
		ErrConvergence, e.Leg, e.Segment, e.Iterations, e.Residual)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}
