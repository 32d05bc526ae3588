// Package dyn provides the core primitives for DAE time stepping.
//
// The package defines the fundamental types and interfaces shared by the
// integration driver and the systems it advances:
//
//   - [State]: continuous state split into positions, velocities and
//     auxiliary variables, with their derivative vectors
//   - [System]: interface for derivative evaluation and error weighting
//   - [Constrained]: systems with algebraic position/velocity constraints
//   - [Projector]: operator that returns a state to the constraint manifold
//
// # Ownership
//
// The driver owns two State values at all times: the last accepted
// ("previous") state and a working ("advanced") state it mutates freely
// during a step attempt. States handed to callers are either one of these
// or an interpolated copy; callers must Clone before holding on to one.
package dyn
