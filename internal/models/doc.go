// Package models provides dynamical systems for demos and tests.
//
// Each model implements [dyn.System]; the constrained ones also
// implement [dyn.Constrained] and expose a constraint Jacobian for the
// Newton projector:
//
//   - [Decay]: scalar exponential decay, the minimal ODE
//   - [Oscillator]: undamped harmonic oscillator with a q/u split
//   - [Pendulum]: Cartesian pendulum as a DAE, the point mass held on
//     a circle by an algebraic constraint rather than an angle
//     coordinate
//
// Accuracy and constraint tolerance are plain fields, matching the
// driver's assumption that both may change between steps.
package models
