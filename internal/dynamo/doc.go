// Package dynamo provides the core simulation primitives for gravitating bodies.
//
// The package defines the state and contracts shared by every integrator:
//
//   - [Body]: mutable point mass (mass, position, velocity, trajectory)
//   - [Trajectory]: bounded FIFO history of planar positions
//   - [Snapshot]: read-only copy of a body handed to renderers
//   - [ForceModel]: pairwise force/acceleration law
//   - [Integrator]: advances a slice of bodies by one fixed step
//
// # Accumulators
//
// Force, acceleration and leapfrog half-velocities are not stored on [Body].
// Each integrator keeps them in scratch buffers that only live for the
// duration of one Step call, so nothing stale survives a strategy switch.
//
// # Massless bodies
//
// A body with zero mass is a tracer: it feels every other body but pulls
// on nothing. Its velocity must always be advanced from the acceleration
// form of the force law, never from force/mass.
//
// # Thread Safety
//
// Bodies are mutated in place by integrators and are NOT thread-safe.
// Hand [Snapshot] values to other goroutines instead.
package dynamo
