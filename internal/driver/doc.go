// Package driver implements the adaptive step loop that advances a
// [dyn.System] through time under error control.
//
// A [Driver] repeatedly attempts steps with a pluggable formula from
// the methods package, decides acceptance with a weighted RMS error
// norm against the system's requested accuracy, projects constrained
// systems back onto their manifolds, and adapts the step size after
// every attempt. Report and scheduled event times artificially limit
// the step; states at report times inside an accepted step come from
// cubic Hermite interpolation, so no integration progress is discarded.
//
// The main entry point is [Driver.StepTo]; [Driver.BackUpAdvancedStateByInterpolation]
// supports event localization by permanently rewinding the trajectory
// head into the last step's interval.
package driver
