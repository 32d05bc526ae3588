package dyn

import "math"

// State holds the continuous variables y = (q, u, z) of a dynamical
// system at one instant, together with the derivatives realized there.
// Q, U and Z are views into a single backing vector, so the flattened
// form is available without copying via Y. The same layout is used for
// the first derivatives (QDot, UDot, ZDot viewing YDot).
type State struct {
	Time float64

	Q []float64 // generalized positions
	U []float64 // generalized velocities
	Z []float64 // auxiliary variables

	QDot    []float64
	UDot    []float64
	ZDot    []float64
	QDotDot []float64

	y    []float64
	ydot []float64
}

func NewState(nq, nu, nz int) *State {
	s := &State{
		y:       make([]float64, nq+nu+nz),
		ydot:    make([]float64, nq+nu+nz),
		QDotDot: make([]float64, nq),
	}
	s.bindViews(nq, nu, nz)
	return s
}

func (s *State) bindViews(nq, nu, nz int) {
	s.Q = s.y[:nq]
	s.U = s.y[nq : nq+nu]
	s.Z = s.y[nq+nu:]
	s.QDot = s.ydot[:nq]
	s.UDot = s.ydot[nq : nq+nu]
	s.ZDot = s.ydot[nq+nu:]
}

func (s *State) Dims() (nq, nu, nz int) {
	return len(s.Q), len(s.U), len(s.Z)
}

// NY is the number of continuous variables, len(q)+len(u)+len(z).
func (s *State) NY() int { return len(s.y) }

// Y returns the flattened continuous variables. The slice aliases the
// state; writes through it are writes to Q, U and Z.
func (s *State) Y() []float64 { return s.y }

// YDot returns the flattened derivatives (qdot, udot, zdot), aliasing
// the state like Y.
func (s *State) YDot() []float64 { return s.ydot }

func (s *State) Clone() *State {
	nq, nu, nz := s.Dims()
	c := NewState(nq, nu, nz)
	c.CopyFrom(s)
	return c
}

// CopyFrom overwrites s with the contents of o. The two states must
// have identical dimensions.
func (s *State) CopyFrom(o *State) {
	s.Time = o.Time
	copy(s.y, o.y)
	copy(s.ydot, o.ydot)
	copy(s.QDotDot, o.QDotDot)
}

func (s *State) IsValid() bool {
	for _, v := range s.y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
