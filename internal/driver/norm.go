package driver

import "math"

// WeightedRMSNorm computes the RMS norm of v under the per-component
// weights w: sqrt(mean((v[i]*w[i])^2)). An empty vector has norm 0.
func WeightedRMSNorm(v, w []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for i, x := range v {
		wx := x * w[i]
		sum += wx * wx
	}
	return math.Sqrt(sum / float64(len(v)))
}

// ProjectionLimit is the largest constraint residual for which the
// Newton iteration inside a projector still operates near its
// quadratic convergence regime: sqrt(consTol), but never tighter than
// 2*consTol so numerically large tolerances always admit projection.
func ProjectionLimit(consTol float64) float64 {
	return math.Max(2*consTol, math.Sqrt(consTol))
}
