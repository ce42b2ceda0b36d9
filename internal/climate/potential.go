package climate

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PotentialStep is the integration step (K) used by Potential.
const PotentialStep = 0.1

// Potential returns V(T) = -∫ Rate(t, g) dt from MinTemp to T by a left
// rectangle rule with PotentialStep, so that dT/dt = -dV/dT and
// V(MinTemp) = 0. A trailing partial step keeps V continuous in T; below
// MinTemp the integral runs backwards. Only differences of V are
// meaningful.
//
// Each call costs O((T-MinTemp)/PotentialStep) rate evaluations; use
// PotentialCurve for a whole sweep.
func (m *Model) Potential(T, g float64) float64 {
	if math.IsNaN(T) {
		return math.NaN()
	}

	a, b, sign := m.p.Model.MinTemp, T, 1.0
	if b < a {
		a, b, sign = b, a, -1.0
	}

	n := int(math.Floor((b - a) / PotentialStep))
	v := 0.0
	for i := 0; i < n; i++ {
		v -= m.Rate(a+float64(i)*PotentialStep, g) * PotentialStep
	}
	if last := a + float64(n)*PotentialStep; b > last {
		v -= m.Rate(last, g) * (b - last)
	}
	return sign * v
}

type PotentialCurve struct {
	Temperatures []float64
	Values       []float64
}

// PotentialCurve evaluates V over TempRange in one cumulative pass
// (trapezoid rule on the grid). Values[0] is 0 at MinTemp.
func (m *Model) PotentialCurve(g float64) PotentialCurve {
	temps, rates := m.RateCurve(g)

	increments := make([]float64, len(temps))
	for i := 1; i < len(temps); i++ {
		increments[i] = -0.5 * (rates[i-1] + rates[i]) * (temps[i] - temps[i-1])
	}

	values := make([]float64, len(temps))
	floats.CumSum(values, increments)

	return PotentialCurve{Temperatures: temps, Values: values}
}

// At returns the curve value at the grid point nearest to T.
func (c PotentialCurve) At(T float64) float64 {
	i := nearestIndex(c.Temperatures, T)
	return c.Values[i]
}

func nearestIndex(sorted []float64, x float64) int {
	best := 0
	for i, v := range sorted {
		if math.Abs(v-x) < math.Abs(sorted[best]-x) {
			best = i
		}
	}
	return best
}
