// Package physics provides the projectile model for simulation.
//
// [Projectile] implements the [dynamo.System] interface over the state
// vector [x, y, vx, vy]: a point mass moving under constant downward
// gravity with no drag. It also implements [dynamo.Hamiltonian] for energy
// calculation.
//
// # Energy Conservation
//
// Forward Euler does not conserve energy; use [dynamo.Hamiltonian] to
// monitor the drift:
//
//	dyn := physics.NewProjectile(physics.StandardGravity)
//	energy := dyn.Energy(state)
package physics
