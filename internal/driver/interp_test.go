package driver

import (
	"math"
	"testing"

	"github.com/renyard/dynstep/internal/dyn"
)

// cubicState fills a state from y(t) = t^3 + 2t^2 - t + 1 per
// component; a cubic Hermite interpolant must reproduce it exactly.
func cubicState(t float64) *dyn.State {
	s := dyn.NewState(1, 1, 0)
	s.Time = t
	y := t*t*t + 2*t*t - t + 1
	f := 3*t*t + 4*t - 1
	s.Q[0], s.U[0] = y, y
	s.QDot[0], s.UDot[0] = f, f
	return s
}

func TestInterpolate_BoundaryIdempotence(t *testing.T) {
	prev := cubicState(1.0)
	adv := cubicState(1.5)
	out := dyn.NewState(1, 1, 0)

	interpolate(prev, adv, prev.Time, out)
	if out.Time != prev.Time {
		t.Errorf("time = %v, want %v", out.Time, prev.Time)
	}
	for i, v := range out.Y() {
		if math.Abs(v-prev.Y()[i]) > 1e-14 {
			t.Errorf("y[%d] = %v, want %v at left boundary", i, v, prev.Y()[i])
		}
	}
	for i, v := range out.YDot() {
		if math.Abs(v-prev.YDot()[i]) > 1e-13 {
			t.Errorf("ydot[%d] = %v, want %v at left boundary", i, v, prev.YDot()[i])
		}
	}

	interpolate(prev, adv, adv.Time, out)
	for i, v := range out.Y() {
		if math.Abs(v-adv.Y()[i]) > 1e-14 {
			t.Errorf("y[%d] = %v, want %v at right boundary", i, v, adv.Y()[i])
		}
	}
	for i, v := range out.YDot() {
		if math.Abs(v-adv.YDot()[i]) > 1e-13 {
			t.Errorf("ydot[%d] = %v, want %v at right boundary", i, v, adv.YDot()[i])
		}
	}
}

func TestInterpolate_ExactForCubics(t *testing.T) {
	prev := cubicState(0.0)
	adv := cubicState(1.0)
	out := dyn.NewState(1, 1, 0)

	for _, tm := range []float64{0.1, 0.25, 0.5, 0.9} {
		interpolate(prev, adv, tm, out)
		want := cubicState(tm)
		for i, v := range out.Y() {
			if math.Abs(v-want.Y()[i]) > 1e-12 {
				t.Errorf("t=%v: y[%d] = %v, want %v", tm, i, v, want.Y()[i])
			}
		}
		for i, v := range out.YDot() {
			if math.Abs(v-want.YDot()[i]) > 1e-12 {
				t.Errorf("t=%v: ydot[%d] = %v, want %v", tm, i, v, want.YDot()[i])
			}
		}
	}
}
