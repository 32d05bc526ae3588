package methods

import (
	"github.com/renyard/dynstep/internal/dyn"
)

// Merson is the Runge-Kutta Merson 4(5) formula: five stages, a fourth
// order solution and an embedded error estimate. The final derivative
// evaluation happens at a fifth-stage predictor, never at the proposed
// solution itself, so projection can still move the solution afterward.
type Merson struct {
	k1, k2, k3, k4, k5 []float64
	scratch            *dyn.State
}

func NewMerson() *Merson {
	return &Merson{}
}

func (m *Merson) Name() string          { return "RungeKuttaMerson" }
func (m *Merson) MinOrder() int         { return 4 }
func (m *Merson) MaxOrder() int         { return 4 }
func (m *Merson) HasErrorControl() bool { return true }

func (m *Merson) ensureScratch(s *dyn.State) {
	n := s.NY()
	if len(m.k1) != n {
		m.k1 = make([]float64, n)
		m.k2 = make([]float64, n)
		m.k3 = make([]float64, n)
		m.k4 = make([]float64, n)
		m.k5 = make([]float64, n)
	}
	if m.scratch == nil || m.scratch.NY() != n {
		m.scratch = s.Clone()
	}
}

// stage sets the scratch state to y0 + h*(sum of weighted ks), realizes
// derivatives there and stores them in kOut.
func (m *Merson) stage(sys dyn.System, y0 []float64, t float64, h float64, kOut []float64, terms ...stageTerm) error {
	y := m.scratch.Y()
	for i := range y {
		v := y0[i]
		for _, tm := range terms {
			v += h * tm.w * tm.k[i]
		}
		y[i] = v
	}
	m.scratch.Time = t
	if err := sys.Realize(m.scratch); err != nil {
		return err
	}
	copy(kOut, m.scratch.YDot())
	return nil
}

type stageTerm struct {
	w float64
	k []float64
}

func (m *Merson) AttemptODEStep(sys dyn.System, start, advanced *dyn.State, t1 float64, yErrEst []float64) (Outcome, error) {
	m.ensureScratch(start)

	t0 := start.Time
	h := t1 - t0
	y0 := start.Y()
	fail := Outcome{Converged: false, Reason: ReasonODENotConverged, ErrOrder: 4, Iterations: 1}

	copy(m.k1, start.YDot())

	if err := m.stage(sys, y0, t0+h/3, h, m.k2, stageTerm{1.0 / 3, m.k1}); err != nil {
		return fail, err
	}
	if err := m.stage(sys, y0, t0+h/3, h, m.k3,
		stageTerm{1.0 / 6, m.k1}, stageTerm{1.0 / 6, m.k2}); err != nil {
		return fail, err
	}
	if err := m.stage(sys, y0, t0+h/2, h, m.k4,
		stageTerm{1.0 / 8, m.k1}, stageTerm{3.0 / 8, m.k3}); err != nil {
		return fail, err
	}
	if err := m.stage(sys, y0, t1, h, m.k5,
		stageTerm{1.0 / 2, m.k1}, stageTerm{-3.0 / 2, m.k3}, stageTerm{2, m.k4}); err != nil {
		return fail, err
	}

	y := advanced.Y()
	for i := range y {
		y[i] = y0[i] + h/6*(m.k1[i]+4*m.k4[i]+m.k5[i])
		yErrEst[i] = h / 30 * (2*m.k1[i] - 9*m.k3[i] + 8*m.k4[i] - m.k5[i])
	}
	advanced.Time = t1

	if !advanced.IsValid() {
		return fail, nil
	}
	return Outcome{Converged: true, ErrOrder: 4, Iterations: 1}, nil
}
