// Package dynamo provides core simulation primitives for the projectile simulator.
//
// The package defines the fundamental interfaces and types shared by the
// physics models, the integrators and the run engine:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//
// # Example
//
//	dyn := physics.NewProjectile(9.81)
//	integ := integrators.NewEuler()
//	next := integ.Step(dyn, x, nil, t, 0.1)
//
// # Thread Safety
//
// States are plain slices and integrators always return a fresh one, so a
// state read from a [Result] is never mutated later.
package dynamo
