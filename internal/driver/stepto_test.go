package driver_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/renyard/dynstep/internal/driver"
	"github.com/renyard/dynstep/internal/dyn"
	"github.com/renyard/dynstep/internal/methods"
	"github.com/renyard/dynstep/internal/models"
	"github.com/renyard/dynstep/internal/project"
)

var noEvent = math.Inf(1)

func newOscillatorDriver(opts driver.Options) (*models.Oscillator, *driver.Driver) {
	m := models.NewOscillator(1.0, 1e-4)
	d, err := driver.New(m, nil, methods.NewMerson(), m.InitialState(1, 0), opts)
	Expect(err).NotTo(HaveOccurred())
	return m, d
}

var _ = Describe("Driver", func() {
	Describe("StepTo", func() {
		It("reproduces a report time that falls inside a step", func() {
			m, d := newOscillatorDriver(driver.DefaultOptions())

			status, err := d.StepTo(0.5, noEvent)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(driver.StatusReachedReportTime))

			s := d.CurrentState()
			Expect(s.Time).To(BeNumerically("~", 0.5, 1e-9))
			q, u := m.Exact(1, 0, 0.5)
			Expect(s.Q[0]).To(BeNumerically("~", q, 1e-3))
			Expect(s.U[0]).To(BeNumerically("~", u, 1e-3))

			// Integration progress past the report time is kept.
			Expect(d.AdvancedTime()).To(BeNumerically(">=", 0.5-1e-12))
		})

		It("lands exactly on a scheduled event time", func() {
			_, d := newOscillatorDriver(driver.DefaultOptions())

			status, err := d.StepTo(10.0, 0.25)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(driver.StatusReachedScheduledEvent))
			Expect(d.AdvancedTime()).To(BeNumerically("~", 0.25, 1e-12))
			Expect(d.CurrentState().Time).To(Equal(d.AdvancedTime()))
		})

		It("stops at the configured final time", func() {
			opts := driver.DefaultOptions()
			opts.FinalTime = 1.0
			_, d := newOscillatorDriver(opts)

			status, err := d.StepTo(2.0, noEvent)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(driver.StatusEndOfSimulation))
			Expect(d.AdvancedTime()).To(BeNumerically("~", 1.0, 1e-12))
		})

		It("returns after every internal step when asked", func() {
			opts := driver.DefaultOptions()
			opts.ReturnEveryInternalStep = true
			_, d := newOscillatorDriver(opts)

			last := 0.0
			for i := 0; i < 1000; i++ {
				status, err := d.StepTo(1.0, noEvent)
				Expect(err).NotTo(HaveOccurred())
				if status == driver.StatusReachedReportTime {
					Expect(d.CurrentState().Time).To(BeNumerically("~", 1.0, 1e-9))
					return
				}
				Expect(status).To(Equal(driver.StatusTimeHasAdvanced))
				Expect(d.AdvancedTime()).To(BeNumerically(">", last))
				last = d.AdvancedTime()
			}
			Fail("report time never reached")
		})
	})

	Describe("statistics", func() {
		It("resets counters without touching step sizes or the trajectory", func() {
			_, d := newOscillatorDriver(driver.DefaultOptions())

			_, err := d.StepTo(3.0, noEvent)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.NumStepsTaken()).To(BeNumerically(">", 0))
			Expect(d.NumStepsAttempted()).To(BeNumerically(">=", d.NumStepsTaken()))

			h := d.PredictedNextStepSize()
			tAdv := d.AdvancedTime()
			d.ResetMethodStatistics()
			Expect(d.Stats()).To(Equal(driver.Statistics{}))
			Expect(d.PredictedNextStepSize()).To(Equal(h))
			Expect(d.AdvancedTime()).To(Equal(tAdv))
		})

		It("fixes the actual initial step size at the first accepted step", func() {
			_, d := newOscillatorDriver(driver.DefaultOptions())
			Expect(d.ActualInitialStepSizeTaken()).To(BeZero())

			_, err := d.StepTo(0.5, noEvent)
			Expect(err).NotTo(HaveOccurred())
			h0 := d.ActualInitialStepSizeTaken()
			Expect(h0).To(BeNumerically(">", 0))

			_, err = d.StepTo(3.0, noEvent)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.ActualInitialStepSizeTaken()).To(Equal(h0))
		})
	})

	Describe("interpolation", func() {
		It("evaluates the trajectory inside the last step and rejects times outside it", func() {
			m, d := newOscillatorDriver(driver.DefaultOptions())

			_, err := d.StepTo(0.5, noEvent)
			Expect(err).NotTo(HaveOccurred())

			s, err := d.CreateInterpolatedState(d.AdvancedTime())
			Expect(err).NotTo(HaveOccurred())
			q, _ := m.Exact(1, 0, d.AdvancedTime())
			Expect(s.Q[0]).To(BeNumerically("~", q, 1e-3))

			_, err = d.CreateInterpolatedState(d.AdvancedTime() + 1.0)
			Expect(err).To(MatchError(dyn.ErrInterpOutOfRange))
		})

		It("backs the advanced state up and integrates on from there", func() {
			m, d := newOscillatorDriver(driver.DefaultOptions())

			_, err := d.StepTo(0.5, noEvent)
			Expect(err).NotTo(HaveOccurred())

			// 0.5 lies inside the final step's interval, so backing up to
			// it forgets the overshoot.
			Expect(d.BackUpAdvancedStateByInterpolation(0.5)).To(Succeed())
			Expect(d.AdvancedTime()).To(BeNumerically("~", 0.5, 1e-12))

			status, err := d.StepTo(1.0, noEvent)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(driver.StatusReachedReportTime))
			q, _ := m.Exact(1, 0, 1.0)
			Expect(d.CurrentState().Q[0]).To(BeNumerically("~", q, 1e-3))
		})
	})

	Describe("with a constrained system", func() {
		It("keeps the pendulum on the rod", func() {
			p := models.NewPendulum()
			d, err := driver.New(p, project.NewNewton(p), methods.NewMerson(),
				p.InitialState(0.5), driver.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())

			e0 := p.Energy(p.InitialState(0.5))
			for tr := 0.2; tr <= 2.0+1e-9; tr += 0.2 {
				_, err := d.StepTo(tr, noEvent)
				Expect(err).NotTo(HaveOccurred())

				res := p.ConstraintErrors(d.AdvancedState())
				Expect(math.Abs(res[0])).To(BeNumerically("<=", 1.5*p.ConsTol))
				Expect(math.Abs(res[1])).To(BeNumerically("<=", 1.5*p.ConsTol))
			}
			Expect(p.Energy(d.AdvancedState())).To(BeNumerically("~", e0, 0.05))
		})

		It("projects every accepted step when configured to", func() {
			p := models.NewPendulum()
			opts := driver.DefaultOptions()
			opts.ProjectEveryStep = true
			d, err := driver.New(p, project.NewNewton(p), methods.NewMerson(),
				p.InitialState(0.5), opts)
			Expect(err).NotTo(HaveOccurred())

			_, err = d.StepTo(1.0, noEvent)
			Expect(err).NotTo(HaveOccurred())
			res := p.ConstraintErrors(d.AdvancedState())
			Expect(math.Abs(res[0])).To(BeNumerically("<=", p.ConsTol*1.01))
		})
	})
})
