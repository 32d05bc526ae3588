package dyn

import (
	"errors"
	"fmt"
)

// Domain errors for stepping operations.
var (
	// ErrStepTooSmall indicates the retry loop shrank the step below the
	// configured minimum without meeting the accuracy requirement.
	ErrStepTooSmall = errors.New("dyn: step size below minimum, cannot meet accuracy")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dyn: invalid state (NaN or Inf detected)")

	// ErrMethodMisconfigured indicates a method that implements neither,
	// or both, of the ODE and DAE step extension points.
	ErrMethodMisconfigured = errors.New("dyn: method must implement exactly one of ODEStepper and DAEStepper")

	// ErrMissingProjector indicates a constrained system without a projector.
	ErrMissingProjector = errors.New("dyn: constrained system requires a projector")

	// ErrInterpOutOfRange indicates an interpolation time outside the
	// bracket [previous.Time, advanced.Time].
	ErrInterpOutOfRange = errors.New("dyn: interpolation time outside previous..advanced bracket")

	// ErrProjectionFailed indicates the constraint projector could not converge.
	ErrProjectionFailed = errors.New("dyn: constraint projection failed to converge")

	// ErrTimeReversed indicates a report or event time before the current time.
	ErrTimeReversed = errors.New("dyn: requested time is in the past")
)

// StepError wraps an error with the time and attempt at which stepping failed.
type StepError struct {
	Time    float64
	Attempt int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step from t=%g failed after %d attempts: %v", e.Time, e.Attempt, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
