package driver

import "github.com/renyard/dynstep/internal/dyn"

// Method identity, fixed at construction.

func (d *Driver) MethodName() string          { return d.method.Name() }
func (d *Driver) MethodMinOrder() int         { return d.method.MinOrder() }
func (d *Driver) MethodMaxOrder() int         { return d.method.MaxOrder() }
func (d *Driver) MethodHasErrorControl() bool { return d.method.HasErrorControl() }

// Step size observers.

// ActualInitialStepSizeTaken is the size of the first accepted step,
// zero until one has been taken, immutable afterward.
func (d *Driver) ActualInitialStepSizeTaken() float64 { return d.sizer.actualFirst }

// PreviousStepSizeTaken is the size of the most recently accepted step.
func (d *Driver) PreviousStepSizeTaken() float64 { return d.sizer.last }

// PredictedNextStepSize is the trial size the next attempt will use.
func (d *Driver) PredictedNextStepSize() float64 { return d.sizer.current }

// Statistics counters.

func (d *Driver) NumStepsAttempted() int64          { return d.stats.StepsAttempted }
func (d *Driver) NumStepsTaken() int64              { return d.stats.StepsTaken }
func (d *Driver) NumErrorTestFailures() int64       { return d.stats.ErrorTestFailures }
func (d *Driver) NumConvergenceTestFailures() int64 { return d.stats.ConvergenceTestFailures }
func (d *Driver) NumConvergentIterations() int64    { return d.stats.ConvergentIterations }
func (d *Driver) NumDivergentIterations() int64     { return d.stats.DivergentIterations }

// NumIterations is the total over convergent and divergent iterations.
func (d *Driver) NumIterations() int64 {
	return d.stats.ConvergentIterations + d.stats.DivergentIterations
}

// System returns the model this driver advances.
func (d *Driver) System() dyn.System { return d.sys }

// Stats returns a copy of all counters.
func (d *Driver) Stats() Statistics { return d.stats }

// ResetMethodStatistics zeroes every counter. Step sizes and the
// trajectory state are untouched.
func (d *Driver) ResetMethodStatistics() {
	d.stats.reset()
}
