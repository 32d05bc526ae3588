package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/renyard/dynstep/internal/dyn"
)

// Pendulum is a point mass on a massless rod, modeled in Cartesian
// coordinates as a DAE: q = (x, y), u = (vx, vy), with the algebraic
// constraint x^2 + y^2 = L^2 instead of an angle coordinate. The
// constraint force enters through the multiplier
//
//	lambda = (g*y - vx^2 - vy^2) / L^2
//
// so the raw dynamics drift off the circle exactly the way a real
// multibody model does, which is what makes projection worth testing.
type Pendulum struct {
	Mass    float64
	Length  float64
	Gravity float64

	Acc     float64
	ConsTol float64

	weights    []float64
	oneOverTol []float64
}

func NewPendulum() *Pendulum {
	p := &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Gravity: 9.81,
		Acc:     1e-4,
		ConsTol: 1e-8,
		weights: []float64{1, 1, 1, 1},
	}
	// Residuals are already scaled into length units of L, so the
	// unit weights are 1 and the weighted norm compares directly
	// against ConsTol.
	p.oneOverTol = []float64{1, 1}
	return p
}

// InitialState places the mass at angle theta from straight down, at
// rest, exactly on the constraint manifold.
func (p *Pendulum) InitialState(theta float64) *dyn.State {
	s := dyn.NewState(2, 2, 0)
	s.Q[0] = p.Length * math.Sin(theta)
	s.Q[1] = -p.Length * math.Cos(theta)
	return s
}

func (p *Pendulum) Realize(s *dyn.State) error {
	x, y := s.Q[0], s.Q[1]
	vx, vy := s.U[0], s.U[1]

	lambda := (p.Gravity*y - vx*vx - vy*vy) / (p.Length * p.Length)

	s.QDot[0] = vx
	s.QDot[1] = vy
	s.UDot[0] = lambda * x
	s.UDot[1] = -p.Gravity + lambda*y
	s.QDotDot[0] = s.UDot[0]
	s.QDotDot[1] = s.UDot[1]
	return nil
}

func (p *Pendulum) Weights() []float64 { return p.weights }
func (p *Pendulum) Accuracy() float64  { return p.Acc }

// ConstraintErrors returns the position residual followed by the
// velocity residual, both scaled by 1/L so they stay O(displacement).
func (p *Pendulum) ConstraintErrors(s *dyn.State) []float64 {
	x, y := s.Q[0], s.Q[1]
	vx, vy := s.U[0], s.U[1]
	L := p.Length
	return []float64{
		(x*x + y*y - L*L) / (2 * L),
		(x*vx + y*vy) / L,
	}
}

func (p *Pendulum) OneOverTolerances() []float64 { return p.oneOverTol }

func (p *Pendulum) ConstraintTolerance() float64 { return p.ConsTol }

func (p *Pendulum) NumConstraints() int { return 1 }

// ConstraintJacobian is d/dq of the scaled position residual: [x/L, y/L].
func (p *Pendulum) ConstraintJacobian(s *dyn.State, jac *mat.Dense) {
	jac.Set(0, 0, s.Q[0]/p.Length)
	jac.Set(0, 1, s.Q[1]/p.Length)
}

// Energy of the mass; conserved by the exact constrained flow.
func (p *Pendulum) Energy(s *dyn.State) float64 {
	v2 := s.U[0]*s.U[0] + s.U[1]*s.U[1]
	return 0.5*p.Mass*v2 + p.Mass*p.Gravity*s.Q[1]
}
