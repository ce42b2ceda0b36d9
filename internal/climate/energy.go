package climate

import "math"

// Albedo is A1 - A2/2·(1 + tanh((T - TCrit)/ΔT)). It decreases from A1
// (ice-covered) to A1-A2 (ice-free) as T rises.
func (m *Model) Albedo(T float64) float64 {
	mp := m.p.Model
	return mp.A1 - 0.5*mp.A2*(1+math.Tanh((T-mp.TCrit)/mp.DeltaT))
}

// EnergyIn is the absorbed solar flux per unit surface area. The factor
// 1/4 spreads the intercepted disc πR² over the sphere 4πR².
func (m *Model) EnergyIn(T float64) float64 {
	return m.p.Physical.SolarConstant / 4 * (1 - m.Albedo(T))
}

// EnergyOut is the emitted long-wave flux per unit area, σT⁴(1-g), with g
// the blocked fraction. This is the form used by Rate and everything
// built on it.
func (m *Model) EnergyOut(T, g float64) float64 {
	return m.p.Physical.StefanBoltzmann * T * T * T * T * (1 - g)
}

// ReciprocalEnergyOut is the alternative outgoing-energy form
// (1/g)·4πR²·σT⁴. It is a whole-sphere power in watts rather than a flux,
// so it is not commensurate with EnergyIn and nothing in the model uses it.
// It returns +Inf for g = 0.
func (m *Model) ReciprocalEnergyOut(T, g float64) float64 {
	r := m.p.Physical.EarthRadius
	return 4 * math.Pi * r * r * m.p.Physical.StefanBoltzmann * T * T * T * T / g
}

// Rate is dT/dt = (EnergyIn - EnergyOut)/C in K/s.
func (m *Model) Rate(T, g float64) float64 {
	return (m.EnergyIn(T) - m.EnergyOut(T, g)) / m.p.Model.HeatCapacity
}
