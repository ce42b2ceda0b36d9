// Package dynamo provides core primitives for scalar dynamical systems.
//
// The package defines the interfaces and types shared by the integrators,
// the simulator and the climate model:
//
//   - [System]: interface for one-dimensional ODEs (dx/dt = f(x, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Trajectory]: sampled (time, state, rate) triples from a run
//   - [ParallelFor]: chunked fan-out for independent parameter sweeps
//
// # Example
//
//	m := climate.DefaultModel()
//	sys := m.System(0.4)
//	x := integrators.NewRK4().Step(sys, 288, 0, 1e4)
//
// # Thread Safety
//
// Systems and integrators in this module hold no mutable state and may be
// shared between goroutines.
package dynamo
