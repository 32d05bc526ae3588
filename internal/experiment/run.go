package experiment

import (
	"context"
	"math"

	"github.com/renyard/dynstep/internal/config"
	"github.com/renyard/dynstep/internal/driver"
	"github.com/renyard/dynstep/internal/dyn"
	"github.com/renyard/dynstep/internal/metrics"
)

// Conserved is implemented by models with a known conserved quantity,
// used to judge integration quality independently of the error test.
type Conserved interface {
	Energy(s *dyn.State) float64
}

// Result holds the reported trajectory of one run plus the driver's
// final statistics.
type Result struct {
	Times  []float64
	States [][]float64 // flattened y per report time

	Stats              driver.Statistics
	ActualInitialStep  float64
	LastStepSize       float64
	ConstraintResidual float64 // weighted norm at the final state, 0 if unconstrained
	MaxEnergyDrift     float64 // largest relative drift over the reports, 0 if not Conserved
	MaxResidualSeen    float64 // largest weighted residual over the reports
	FinalStatus        driver.Status
}

// Run drives d over the configured report schedule until the duration
// is reached. Cancellation is honored between calls to StepTo, never
// mid-step.
func Run(ctx context.Context, d *driver.Driver, cfg *config.Config) (*Result, error) {
	res := &Result{}
	record := func(s *dyn.State) {
		y := make([]float64, s.NY())
		copy(y, s.Y())
		res.Times = append(res.Times, s.Time)
		res.States = append(res.States, y)
	}

	drift := metrics.NewMaxDrift("energy")
	peak := metrics.NewPeak("constraint")
	conserved, hasEnergy := d.System().(Conserved)
	cons, hasConstraints := d.System().(dyn.Constrained)
	observe := func(t float64) {
		// Observations happen at the trajectory head: that is where
		// projection has acted, so residuals there are meaningful.
		adv := d.AdvancedState()
		if hasEnergy {
			drift.Observe(t, conserved.Energy(adv))
		}
		if hasConstraints {
			peak.Observe(t, driver.WeightedRMSNorm(
				cons.ConstraintErrors(adv), cons.OneOverTolerances()))
		}
	}

	noEvent := math.Inf(1)
	for tReport := cfg.ReportInterval; ; tReport += cfg.ReportInterval {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		status, err := d.StepTo(tReport, noEvent)
		if err != nil {
			return res, err
		}
		record(d.CurrentState())
		observe(d.AdvancedTime())
		res.FinalStatus = status
		if status == driver.StatusEndOfSimulation || tReport >= cfg.Duration {
			break
		}
	}

	res.Stats = d.Stats()
	res.ActualInitialStep = d.ActualInitialStepSizeTaken()
	res.LastStepSize = d.PreviousStepSizeTaken()
	res.MaxEnergyDrift = drift.Value()
	res.MaxResidualSeen = peak.Value()
	if hasConstraints {
		res.ConstraintResidual = driver.WeightedRMSNorm(
			cons.ConstraintErrors(d.AdvancedState()), cons.OneOverTolerances())
	}
	return res, nil
}
