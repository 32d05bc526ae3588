package driver

import (
	"github.com/renyard/dynstep/internal/dyn"
)

// interpolate fills out with the cubic Hermite interpolant between
// prev and adv evaluated at t. Endpoint values and first derivatives
// are matched exactly, so t at either bracket end reproduces that
// state. The second position derivative, which the cubic cannot carry,
// is interpolated linearly.
//
// The caller guarantees prev.Time <= t <= adv.Time and prev.Time < adv.Time.
func interpolate(prev, adv *dyn.State, t float64, out *dyn.State) {
	h := adv.Time - prev.Time
	theta := (t - prev.Time) / h

	// Hermite basis at theta, plus the basis derivatives for ydot.
	t2 := theta * theta
	t3 := t2 * theta
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + theta
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	d00 := 6*t2 - 6*theta
	d10 := 3*t2 - 4*theta + 1
	d01 := -6*t2 + 6*theta
	d11 := 3*t2 - 2*theta

	y0, y1 := prev.Y(), adv.Y()
	f0, f1 := prev.YDot(), adv.YDot()
	y, f := out.Y(), out.YDot()
	for i := range y {
		y[i] = h00*y0[i] + h10*h*f0[i] + h01*y1[i] + h11*h*f1[i]
		f[i] = d00/h*y0[i] + d10*f0[i] + d01/h*y1[i] + d11*f1[i]
	}
	for i := range out.QDotDot {
		out.QDotDot[i] = (1-theta)*prev.QDotDot[i] + theta*adv.QDotDot[i]
	}
	out.Time = t
}
