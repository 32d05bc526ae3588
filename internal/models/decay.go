package models

import "github.com/renyard/dynstep/internal/dyn"

// Decay is dz/dt = -Lambda*z, the scalar test problem with the known
// solution z(t) = z(0)*exp(-Lambda*t). The single variable lives in
// the auxiliary partition: there is no position/velocity structure.
type Decay struct {
	Lambda  float64
	Acc     float64
	weights []float64
}

func NewDecay(lambda, accuracy float64) *Decay {
	return &Decay{
		Lambda:  lambda,
		Acc:     accuracy,
		weights: []float64{1},
	}
}

func (m *Decay) InitialState(z0 float64) *dyn.State {
	s := dyn.NewState(0, 0, 1)
	s.Z[0] = z0
	return s
}

func (m *Decay) Realize(s *dyn.State) error {
	s.ZDot[0] = -m.Lambda * s.Z[0]
	return nil
}

func (m *Decay) Weights() []float64 { return m.weights }
func (m *Decay) Accuracy() float64  { return m.Acc }
