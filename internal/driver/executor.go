package driver

import (
	"math"

	"github.com/renyard/dynstep/internal/dyn"
	"github.com/renyard/dynstep/internal/methods"
)

// attemptDAEStep takes one trial step from previous to t1, storing the
// result in the advanced state and the error estimate in d.yErrEst.
// Methods that implement the DAE extension point handle projection
// themselves; for ODE methods this wraps the raw step in the standard
// projection policy:
//
//  1. A non-converged ODE step fails immediately, no projection.
//  2. If the weighted error estimate exceeds 2^errOrder times the
//     requested accuracy, even a half step would have failed the error
//     test, so projection cannot salvage the step. Return converged
//     without projecting and let the error test reject it.
//  3. If the constraint residual exceeds ProjectionLimit, the Newton
//     iteration inside the projector would run outside its reliable
//     convergence basin. Treat as a convergence failure.
//  4. Otherwise project when the constraints are violated beyond
//     tolerance, or on every step when so configured. A projector
//     error is a convergence failure.
//
// Formula errors never propagate past this point: they become
// non-converged outcomes that drive the shrink-and-retry loop.
func (d *Driver) attemptDAEStep(t1 float64) methods.Outcome {
	d.advanced.CopyFrom(d.previous)

	if d.dae != nil {
		out, err := d.dae.AttemptDAEStep(d.sys, d.proj, d.previous, d.advanced, t1, d.yErrEst)
		if err != nil {
			out.Converged = false
			if out.Reason == methods.ReasonNone {
				out.Reason = methods.ReasonODENotConverged
			}
		}
		return out
	}

	out, err := d.ode.AttemptODEStep(d.sys, d.previous, d.advanced, t1, d.yErrEst)
	if err != nil || !out.Converged {
		out.Converged = false
		if out.Reason == methods.ReasonNone {
			out.Reason = methods.ReasonODENotConverged
		}
		return out
	}

	rmsErr := WeightedRMSNorm(d.yErrEst, d.sys.Weights())
	if rmsErr > math.Pow(2, float64(out.ErrOrder))*d.sys.Accuracy() {
		// Converged but hopeless; not worth projecting.
		return out
	}

	cons, ok := d.sys.(dyn.Constrained)
	if !ok {
		return out
	}

	consTol := cons.ConstraintTolerance()
	consErr := WeightedRMSNorm(cons.ConstraintErrors(d.advanced), cons.OneOverTolerances())
	if consErr > ProjectionLimit(consTol) {
		out.Converged = false
		out.Reason = methods.ReasonConstraintResidualTooLarge
		return out
	}

	if d.opts.ProjectEveryStep || consErr > consTol {
		if err := d.proj.Project(d.advanced, d.yErrEst); err != nil {
			out.Converged = false
			out.Reason = methods.ReasonProjectionFailed
			return out
		}
	}

	return out
}
