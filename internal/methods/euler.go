package methods

import "github.com/renyard/dynstep/internal/dyn"

// ExplicitEuler is the first-order explicit Euler formula. It carries
// no error estimate, so the driver accepts every converged step at the
// configured fixed step size.
type ExplicitEuler struct{}

func NewExplicitEuler() *ExplicitEuler {
	return &ExplicitEuler{}
}

func (e *ExplicitEuler) Name() string          { return "ExplicitEuler" }
func (e *ExplicitEuler) MinOrder() int         { return 1 }
func (e *ExplicitEuler) MaxOrder() int         { return 1 }
func (e *ExplicitEuler) HasErrorControl() bool { return false }

func (e *ExplicitEuler) AttemptODEStep(sys dyn.System, start, advanced *dyn.State, t1 float64, yErrEst []float64) (Outcome, error) {
	h := t1 - start.Time
	y0 := start.Y()
	f0 := start.YDot()

	y := advanced.Y()
	for i := range y {
		y[i] = y0[i] + h*f0[i]
	}
	advanced.Time = t1

	for i := range yErrEst {
		yErrEst[i] = 0
	}
	return Outcome{Converged: true, ErrOrder: 1, Iterations: 1}, nil
}
