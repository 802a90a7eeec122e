// Package physics provides the gravitational force law and the built-in
// initial-condition catalogs.
//
// [Gravity] implements [dynamo.ForceModel]:
//
//   - Force:        G·mp·ms/r² along the unit vector from p to s
//   - Acceleration: G·ms/r³·r, used for massless tracers
//
// Without softening, both are undefined at zero separation and return
// [ErrCoincident]; integrators skip such pairs before calling. Close
// encounters are not otherwise corrected: accelerations grow without bound
// as r → 0. Set [Gravity.Softening] to bound them.
//
// # Catalogs
//
// Scenarios are registered by name (see [LookupScenario]) and yield SI
// initial conditions. Any AU scaling happens here, before bodies are built.
//
//	sc, _ := physics.LookupScenario("kepler")
//	ics := sc.Build(rand.New(rand.NewSource(1)), 0)
package physics
