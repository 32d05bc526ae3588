package methods

import "github.com/renyard/dynstep/internal/dyn"

// Method identifies an integration formula. The identity is fixed at
// construction; the driver exposes it unchanged through its accessors.
type Method interface {
	Name() string
	MinOrder() int
	MaxOrder() int
	HasErrorControl() bool
}

// ODEStepper is the extension point for methods that take a raw ODE
// step and leave constraint projection to the driver. Given the start
// state (with derivatives realized) it must advance the continuous
// variables of advanced to t1, fill yErrEst with an absolute error
// estimate per variable, and report the estimate's asymptotic order.
//
// The method must not evaluate derivatives at the final proposed value:
// the driver projects onto the constraint manifolds first, so that
// evaluation would be wasted.
//
// A concrete method implements exactly one of ODEStepper and DAEStepper.
type ODEStepper interface {
	Method
	AttemptODEStep(sys dyn.System, start, advanced *dyn.State, t1 float64, yErrEst []float64) (Outcome, error)
}

// DAEStepper is the extension point for methods that handle the DAE
// issues themselves, projection of the state and error estimate
// included, before returning.
type DAEStepper interface {
	Method
	AttemptDAEStep(sys dyn.System, proj dyn.Projector, start, advanced *dyn.State, t1 float64, yErrEst []float64) (Outcome, error)
}

// FailureReason discriminates why a step attempt did not converge.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonODENotConverged
	ReasonConstraintResidualTooLarge
	ReasonProjectionFailed
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonODENotConverged:
		return "ode step did not converge"
	case ReasonConstraintResidualTooLarge:
		return "constraint residual outside projection basin"
	case ReasonProjectionFailed:
		return "constraint projection failed"
	}
	return "unknown"
}

// Outcome is the result of one step attempt. When Converged is false
// the error estimate is meaningless and Reason says why; the caller
// shrinks the step and retries. Iterations is 1 for non-iterative
// methods.
type Outcome struct {
	Converged  bool
	Reason     FailureReason
	ErrOrder   int
	Iterations int
}
