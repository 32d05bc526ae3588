package dyn

// System is the external model the driver advances. Realize evaluates
// the derivative vectors of s in place at s.Time; it must not change
// s.Time or the continuous variables themselves.
//
// Weights and Accuracy parameterize the weighted RMS error norm used
// for step acceptance. Both may change between steps; the driver reads
// them fresh on every attempt.
type System interface {
	Realize(s *State) error

	// Weights returns one weight per continuous variable, ordered like
	// State.Y. Weights are O(1) unit scalings; the weighted RMS norm of
	// an error vector is compared directly against Accuracy.
	Weights() []float64

	// Accuracy is the requested local accuracy for the error test.
	Accuracy() float64
}

// Constrained is implemented by systems whose positions and velocities
// must remain on an algebraic manifold. ConstraintErrors returns the
// residuals at s, position-level entries first, then velocity-level;
// OneOverTolerances returns matching O(1) unit scalings, so the
// weighted norm of the residuals is compared directly against
// ConstraintTolerance.
type Constrained interface {
	System

	ConstraintErrors(s *State) []float64
	OneOverTolerances() []float64
	ConstraintTolerance() float64
}

// Projector returns a state to the constraint manifold, adjusting the
// error estimate to stay consistent with the moved state. It reports an
// error when its iteration cannot converge; the driver treats that the
// same as a convergence failure of the step formula.
type Projector interface {
	Project(s *State, yErrEst []float64) error
}
