package methods

import (
	"testing"

	"github.com/renyard/dynstep/internal/models"
)

func TestExplicitEuler_OneStep(t *testing.T) {
	m := models.NewOscillator(1.0, 1e-3)
	start := m.InitialState(1, 0)
	if err := m.Realize(start); err != nil {
		t.Fatalf("Realize: %v", err)
	}
	advanced := start.Clone()

	e := NewExplicitEuler()
	yErrEst := []float64{999, 999}
	out, err := e.AttemptODEStep(m, start, advanced, 0.01, yErrEst)
	if err != nil {
		t.Fatalf("AttemptODEStep: %v", err)
	}
	if !out.Converged || out.ErrOrder != 1 {
		t.Fatalf("Outcome = %+v, want converged at order 1", out)
	}

	// q' = u = 0 and u' = -q = -1 at the start, applied exactly once.
	if got := advanced.Q[0]; got != 1.0 {
		t.Errorf("q = %v, want 1", got)
	}
	if got := advanced.U[0]; got != -0.01 {
		t.Errorf("u = %v, want -0.01", got)
	}
	if advanced.Time != 0.01 {
		t.Errorf("time = %v, want 0.01", advanced.Time)
	}

	// No estimate is available without error control.
	for i, e := range yErrEst {
		if e != 0 {
			t.Errorf("yErrEst[%d] = %v, want 0", i, e)
		}
	}
}

func TestExplicitEuler_Identity(t *testing.T) {
	e := NewExplicitEuler()
	if e.Name() != "ExplicitEuler" {
		t.Errorf("Name = %q", e.Name())
	}
	if e.MinOrder() != 1 || e.MaxOrder() != 1 {
		t.Errorf("orders = %d..%d, want 1..1", e.MinOrder(), e.MaxOrder())
	}
	if e.HasErrorControl() {
		t.Error("explicit Euler must not claim error control")
	}
}
