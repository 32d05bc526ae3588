package driver

import (
	"fmt"
	"math"

	"github.com/renyard/dynstep/internal/dyn"
	"github.com/renyard/dynstep/internal/methods"
)

// Status reports why StepTo returned control to the caller.
type Status int

const (
	StatusReachedReportTime Status = iota
	StatusReachedScheduledEvent
	StatusTimeHasAdvanced
	StatusEndOfSimulation
)

func (s Status) String() string {
	switch s {
	case StatusReachedReportTime:
		return "reached report time"
	case StatusReachedScheduledEvent:
		return "reached scheduled event"
	case StatusTimeHasAdvanced:
		return "time has advanced"
	case StatusEndOfSimulation:
		return "end of simulation"
	}
	return "unknown"
}

// Options configures a Driver. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// InitialStepSize is the first trial step. If zero, the driver
	// estimates one from the first report interval.
	InitialStepSize float64

	// MinStepSize bounds the shrink-and-retry loop: once rejection or
	// convergence failure pushes the trial step below it, StepTo fails
	// with dyn.ErrStepTooSmall instead of shrinking forever.
	MinStepSize float64

	// MaxStepSize, if positive, caps growth of the trial step.
	MaxStepSize float64

	// FinalTime, if positive, is the end of the simulation; the driver
	// never integrates past it and reports EndOfSimulation on arrival.
	FinalTime float64

	// ProjectEveryStep forces constraint projection on every converged
	// step, not just when the residual exceeds tolerance.
	ProjectEveryStep bool

	// ReturnEveryInternalStep makes StepTo return TimeHasAdvanced after
	// each accepted step rather than running on to the report time.
	ReturnEveryInternalStep bool
}

func DefaultOptions() Options {
	return Options{
		MinStepSize: 1e-10,
	}
}

// Driver is the adaptive stepping state machine. It owns exactly two
// trajectory states: previous, the start of the current step and the
// last fully accepted state, and advanced, the tentative head of the
// trajectory. Interpolated report states live in a third buffer that
// never feeds back into integration.
//
// A Driver is not safe for concurrent use; independent trajectories
// need independent drivers.
type Driver struct {
	sys  dyn.System
	proj dyn.Projector

	method methods.Method
	ode    methods.ODEStepper
	dae    methods.DAEStepper

	opts Options

	previous        *dyn.State
	advanced        *dyn.State
	interp          *dyn.State
	useInterpolated bool

	yErrEst []float64

	sizer stepSizer
	stats Statistics

	initialized bool
}

// New builds a driver for sys starting at the given initial state. The
// method must implement exactly one of the two step extension points;
// anything else is a programming error surfaced immediately. A system
// with algebraic constraints requires a projector unless the method
// does its own DAE handling.
func New(sys dyn.System, proj dyn.Projector, m methods.Method, initial *dyn.State, opts Options) (*Driver, error) {
	ode, hasODE := m.(methods.ODEStepper)
	dae, hasDAE := m.(methods.DAEStepper)
	if hasODE == hasDAE {
		return nil, fmt.Errorf("driver: method %s: %w", m.Name(), dyn.ErrMethodMisconfigured)
	}
	if _, constrained := sys.(dyn.Constrained); constrained && proj == nil && !hasDAE {
		return nil, fmt.Errorf("driver: method %s: %w", m.Name(), dyn.ErrMissingProjector)
	}

	d := &Driver{
		sys:      sys,
		proj:     proj,
		method:   m,
		opts:     opts,
		previous: initial.Clone(),
		advanced: initial.Clone(),
		interp:   initial.Clone(),
		yErrEst:  make([]float64, initial.NY()),
	}
	if hasODE {
		d.ode = ode
	} else {
		d.dae = dae
	}
	d.sizer = stepSizer{
		current:         opts.InitialStepSize,
		min:             opts.MinStepSize,
		max:             opts.MaxStepSize,
		hasErrorControl: m.HasErrorControl(),
	}
	return d, nil
}

// timeEps is the slack used when comparing times near t: step end
// times within it snap to deadlines exactly.
func timeEps(t float64) float64 {
	return 1e-12 * math.Max(1, math.Abs(t))
}

func (d *Driver) initialize(reportTime float64) error {
	if d.initialized {
		return nil
	}
	if !d.previous.IsValid() {
		return dyn.ErrInvalidState
	}
	if err := d.sys.Realize(d.previous); err != nil {
		return fmt.Errorf("driver: realizing initial state: %w", err)
	}
	d.advanced.CopyFrom(d.previous)
	if d.sizer.current <= 0 {
		// No initial step given: start an order of magnitude inside the
		// first report interval and let error control take over.
		h := 0.1 * (reportTime - d.previous.Time)
		if d.opts.MaxStepSize > 0 {
			h = math.Min(h, d.opts.MaxStepSize)
		}
		d.sizer.current = math.Max(h, d.opts.MinStepSize)
	}
	d.initialized = true
	return nil
}

// StepTo advances the trajectory until it reaches reportTime, lands on
// scheduledEventTime, or hits the configured final time, whichever
// comes first. Scheduled event and final times are hard barriers the
// step is artificially limited to; the report time may fall inside an
// accepted step, in which case the reported state is interpolated and
// the integration progress beyond it is kept.
//
// The state the status refers to is available from CurrentState.
func (d *Driver) StepTo(reportTime, scheduledEventTime float64) (Status, error) {
	if err := d.initialize(reportTime); err != nil {
		return 0, err
	}
	// Reports inside [previous.Time, advanced.Time] are still served by
	// interpolation; only times behind the bracket start are gone for
	// good.
	if reportTime < d.previous.Time-timeEps(d.previous.Time) {
		return 0, fmt.Errorf("driver: report time %g: %w", reportTime, dyn.ErrTimeReversed)
	}

	tMax := scheduledEventTime
	if d.opts.FinalTime > 0 && d.opts.FinalTime < tMax {
		tMax = d.opts.FinalTime
	}

	for {
		t := d.advanced.Time
		eps := timeEps(t)

		switch {
		case t >= reportTime+eps:
			// Already integrated past the report time; reproduce it by
			// interpolation without discarding progress.
			interpolate(d.previous, d.advanced, reportTime, d.interp)
			d.useInterpolated = true
			return StatusReachedReportTime, nil
		case t >= reportTime-eps:
			d.useInterpolated = false
			return StatusReachedReportTime, nil
		case t >= scheduledEventTime-eps:
			d.useInterpolated = false
			return StatusReachedScheduledEvent, nil
		case d.opts.FinalTime > 0 && t >= d.opts.FinalTime-eps:
			d.useInterpolated = false
			return StatusEndOfSimulation, nil
		}

		if err := d.takeOneStep(tMax, reportTime); err != nil {
			return 0, err
		}

		if d.opts.ReturnEveryInternalStep {
			d.useInterpolated = false
			return StatusTimeHasAdvanced, nil
		}
	}
}

// takeOneStep commits the current advanced state as the new previous
// state, then attempts steps from it until one is accepted, shrinking
// on every convergence failure or error-test rejection. The trial end
// time is limited to tMax, and snaps to tReport when the natural step
// would land within roundoff of it.
func (d *Driver) takeOneStep(tMax, tReport float64) error {
	d.previous.CopyFrom(d.advanced)
	t0 := d.previous.Time

	for attempt := 1; ; attempt++ {
		h := d.sizer.current
		t1 := t0 + h
		hWasArtificiallyLimited := false
		if t1 > tMax-timeEps(tMax) {
			t1 = tMax
			hWasArtificiallyLimited = true
		} else if math.Abs(t1-tReport) <= timeEps(tReport) {
			t1 = tReport
			hWasArtificiallyLimited = true
		}
		hTaken := t1 - t0

		out := d.attemptDAEStep(t1)
		d.stats.recordAttempt(out.Converged, int64(out.Iterations))

		if !out.Converged {
			d.stats.ConvergenceTestFailures++
			d.sizer.shrinkAfterFailure(hTaken)
			if d.sizer.belowMinimum() {
				return &dyn.StepError{Time: t0, Attempt: attempt, Wrapped: dyn.ErrStepTooSmall}
			}
			continue
		}

		rmsErr := WeightedRMSNorm(d.yErrEst, d.sys.Weights())
		accepted := d.sizer.adjust(rmsErr, d.sys.Accuracy(), out.ErrOrder, hWasArtificiallyLimited, hTaken)
		if !accepted {
			d.stats.ErrorTestFailures++
			if d.sizer.belowMinimum() {
				return &dyn.StepError{Time: t0, Attempt: attempt, Wrapped: dyn.ErrStepTooSmall}
			}
			continue
		}

		// Accepted. Derivatives at the new head are needed for the next
		// step and for interpolation, and must reflect the projected
		// state, which is why the formula didn't evaluate them.
		if err := d.sys.Realize(d.advanced); err != nil {
			return fmt.Errorf("driver: realizing accepted state at t=%g: %w", t1, err)
		}
		d.stats.StepsTaken++
		d.sizer.noteAccepted(hTaken)
		return nil
	}
}

// CurrentState is the state the last StepTo status described: the
// interpolated report state when interpolation was required, otherwise
// the advanced state. Callers must Clone it to keep it across calls.
func (d *Driver) CurrentState() *dyn.State {
	if d.useInterpolated {
		return d.interp
	}
	return d.advanced
}

// AdvancedState is the tentative head of the trajectory.
func (d *Driver) AdvancedState() *dyn.State { return d.advanced }

// AdvancedTime is the time of the trajectory head.
func (d *Driver) AdvancedTime() float64 { return d.advanced.Time }

// CreateInterpolatedState evaluates the trajectory at t, which must
// lie in [previous.Time, advanced.Time], without altering either
// bracketing state. The returned state is the driver's interpolation
// buffer, overwritten by the next interpolation.
func (d *Driver) CreateInterpolatedState(t float64) (*dyn.State, error) {
	if t < d.previous.Time || t > d.advanced.Time {
		return nil, fmt.Errorf("driver: t=%g not in [%g, %g]: %w",
			t, d.previous.Time, d.advanced.Time, dyn.ErrInterpOutOfRange)
	}
	if d.advanced.Time == d.previous.Time {
		d.interp.CopyFrom(d.advanced)
		return d.interp, nil
	}
	interpolate(d.previous, d.advanced, t, d.interp)
	return d.interp, nil
}

// BackUpAdvancedStateByInterpolation permanently rewinds the advanced
// state to time t inside the last step and forgets the remainder of
// the interval. Used once an event trigger has been localized to a
// sub-interval: subsequent steps start from the backed-up state.
// Derivatives are re-realized there so the cubic's approximation never
// leaks into the next step.
func (d *Driver) BackUpAdvancedStateByInterpolation(t float64) error {
	if t < d.previous.Time || t > d.advanced.Time {
		return fmt.Errorf("driver: t=%g not in [%g, %g]: %w",
			t, d.previous.Time, d.advanced.Time, dyn.ErrInterpOutOfRange)
	}
	if d.advanced.Time == d.previous.Time {
		return nil
	}
	interpolate(d.previous, d.advanced, t, d.interp)
	d.advanced.CopyFrom(d.interp)
	d.useInterpolated = false
	if err := d.sys.Realize(d.advanced); err != nil {
		return fmt.Errorf("driver: realizing backed-up state at t=%g: %w", t, err)
	}
	return nil
}
