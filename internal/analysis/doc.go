// Package analysis studies runs rather than stepping them.
//
//   - [CircularOrbit]: reference problem with a closed-form solution, used
//     to measure the observed order of each integrator
//   - [LyapunovExponent]: separation of two nearby runs
//   - [OrbitPortrait]: path, axis crossings and period of one body
//   - [DominantPeriod]: spectral period estimate of a sampled coordinate
//
// # Convergence
//
// Halving Δt should divide the position error by about 2^p:
//
//	rows, err := analysis.DefaultOrbit().Study(ctx, integrators.Kinds(), analysis.DefaultSteps(), period/8)
//	for _, r := range rows {
//	    fmt.Println(r.Kind, r.Ratio(), r.Order())
//	}
package analysis
