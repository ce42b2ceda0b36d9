// Package analysis provides equilibrium and hysteresis tools built on the
// climate model.
//
// The package characterises the fixed points of dT/dt = f(T; g):
//
//   - [Classify]: equilibria with slope, stability and ice/hot branch
//   - [Refine]: bisection of a sign-change bracket to a precise root
//   - [NearestStable]: stable state closest to a previous temperature
//   - [Hysteresis]: slow ramp of g up and back down, tracking the climate
//   - [Bifurcation]: classified equilibria across a range of g
//   - [LyapunovExponent]: local divergence rate of nearby trajectories
//
// # Hysteresis
//
// Between roughly g = 0.37 and g = 0.42 an ice-covered and an ice-free
// state coexist. Ramping g up from a cold start stays frozen until the ice
// branch disappears; ramping back down stays warm until the hot branch
// disappears:
//
//	loop, _ := analysis.Hysteresis(m, analysis.DefaultHysteresisConfig())
//	for i := range loop.Forward {
//	    fmt.Println(loop.Forward[i].G, loop.Forward[i].T, loop.Backward[i].T)
//	}
package analysis
