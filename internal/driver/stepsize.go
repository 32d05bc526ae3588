package driver

import "math"

// Step size adaptation constants. The hysteresis band keeps the step
// from oscillating when the estimated optimum is barely different from
// the size just used.
const (
	stepSafety     = 0.9
	minShrink      = 0.1
	maxGrow        = 5.0
	hysteresisLow  = 0.9
	hysteresisHigh = 1.2
)

// stepSizer holds the step size state for one driver and implements
// the default acceptance policy shared by all error-controlled methods.
type stepSizer struct {
	current     float64
	last        float64 // size of the most recently accepted step
	actualFirst float64 // immutable once set
	min, max    float64

	hasErrorControl bool
}

// adjust evaluates the error from the attempt just completed and
// updates the next trial step size. hTaken is the size actually used,
// which may be smaller than current when the step was artificially
// limited by a report or event deadline. It returns whether the step
// is accepted.
//
// Growth is suppressed when artificiallyLimited is set: the limitation
// came from an external deadline, not from the formula's accuracy
// limit, so the resulting step size never exceeds hTaken.
func (z *stepSizer) adjust(err, accuracy float64, errOrder int, artificiallyLimited bool, hTaken float64) bool {
	if !z.hasErrorControl {
		return true
	}

	var newH float64
	if err == 0 {
		newH = maxGrow * hTaken
	} else {
		// Optimal step for an order-p error estimate: the error scales
		// as h^p, so h_opt = h*(accuracy/err)^(1/p), damped by a safety
		// factor.
		newH = stepSafety * hTaken * math.Pow(accuracy/err, 1/float64(errOrder))
	}

	accepted := err <= accuracy

	if newH > hTaken {
		if artificiallyLimited || newH < hysteresisHigh*hTaken {
			newH = hTaken // not allowed, or not worth changing
		}
		if newH > maxGrow*hTaken {
			newH = maxGrow * hTaken
		}
	} else if accepted {
		// A marginal estimate on a successful step is inside the
		// hysteresis band; keep the size rather than dither.
		if newH > hysteresisLow*hTaken {
			newH = hTaken
		}
	} else {
		// A rejected step must actually shrink, but never collapse.
		newH = math.Min(newH, hysteresisLow*hTaken)
		newH = math.Max(newH, minShrink*hTaken)
	}

	if z.max > 0 && newH > z.max {
		newH = z.max
	}
	z.current = newH
	return accepted
}

// shrinkAfterFailure halves the step after a convergence failure.
func (z *stepSizer) shrinkAfterFailure(hTaken float64) {
	z.current = 0.5 * hTaken
}

func (z *stepSizer) belowMinimum() bool {
	return z.current < z.min
}

func (z *stepSizer) noteAccepted(hTaken float64) {
	z.last = hTaken
	if z.actualFirst == 0 {
		z.actualFirst = hTaken
	}
}
