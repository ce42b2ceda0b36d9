// Package climate implements a zero-dimensional energy-balance model of
// global mean surface temperature.
//
// The state is a single temperature T (kelvin) evolving as
//
//	C dT/dt = (S0/4)(1 - α(T)) - σT⁴(1 - g)
//
// where α(T) is a tanh-shaped ice-albedo curve and g is the fraction of
// outgoing long-wave radiation blocked by greenhouse gases. The package
// provides the energy terms, a fixed-step RK4 integrator, a grid scan for
// equilibria and their stability, and the potential V with dT/dt = -dV/dT.
//
// A [Model] is immutable once constructed and safe for concurrent use.
package climate
