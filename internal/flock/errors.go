package flock

import (
	"errors"
	"fmt"
)

// Domain errors for flock configuration and state.
var (
	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("flock: parameter out of valid bounds")

	// ErrOutOfBounds indicates a boid position outside the simulation rectangle.
	ErrOutOfBounds = errors.New("flock: boid position outside simulation area")
)

// ParamError wraps an error with the offending parameter.
type ParamError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
