package models

import (
	"math"

	"github.com/renyard/dynstep/internal/dyn"
)

// Oscillator is the undamped harmonic oscillator qdotdot = -omega^2 q,
// written with the position/velocity split the driver expects.
type Oscillator struct {
	Omega   float64
	Acc     float64
	weights []float64
}

func NewOscillator(omega, accuracy float64) *Oscillator {
	return &Oscillator{
		Omega:   omega,
		Acc:     accuracy,
		weights: []float64{1, 1},
	}
}

func (m *Oscillator) InitialState(q0, u0 float64) *dyn.State {
	s := dyn.NewState(1, 1, 0)
	s.Q[0] = q0
	s.U[0] = u0
	return s
}

func (m *Oscillator) Realize(s *dyn.State) error {
	s.QDot[0] = s.U[0]
	s.UDot[0] = -m.Omega * m.Omega * s.Q[0]
	s.QDotDot[0] = s.UDot[0]
	return nil
}

func (m *Oscillator) Weights() []float64 { return m.weights }
func (m *Oscillator) Accuracy() float64  { return m.Acc }

// Energy is conserved exactly by the true flow; tests use it to bound
// integration error over long horizons.
func (m *Oscillator) Energy(s *dyn.State) float64 {
	return 0.5 * (s.U[0]*s.U[0] + m.Omega*m.Omega*s.Q[0]*s.Q[0])
}

// Exact returns the analytic solution at t for the given initial
// conditions.
func (m *Oscillator) Exact(q0, u0, t float64) (q, u float64) {
	w := m.Omega
	q = q0*math.Cos(w*t) + u0/w*math.Sin(w*t)
	u = -q0*w*math.Sin(w*t) + u0*math.Cos(w*t)
	return q, u
}
