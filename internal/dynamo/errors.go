package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a position or velocity holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted between steps.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrDimensionMismatch indicates scratch or catalog data of the wrong length.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and bodies")

	// ErrHalted is returned by a simulation that already failed a step.
	ErrHalted = errors.New("dynamo: simulation halted after a failed step")
)

// BodyError ties an error to one body of the collection.
type BodyError struct {
	Index   int
	Name    string
	Wrapped error
}

func (e *BodyError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("body %d: %v", e.Index, e.Wrapped)
	}
	return fmt.Sprintf("body %d (%s): %v", e.Index, e.Name, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step       int
	Time       float64
	Integrator string
	Wrapped    error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f, %s): %v", e.Step, e.Time, e.Integrator, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
