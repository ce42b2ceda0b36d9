package climate

// TempRange returns TempResolution evenly spaced temperatures from MinTemp
// to MaxTemp inclusive. It is the sampling grid for every sweep in this
// package, so its resolution bounds the precision of root finding.
func (m *Model) TempRange() []float64 {
	lo, hi := m.p.Model.MinTemp, m.p.Model.MaxTemp
	n := m.p.Simulation.TempResolution

	temps := make([]float64, n)
	for i := range temps {
		temps[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return temps
}

// RateCurve samples dT/dt over TempRange.
func (m *Model) RateCurve(g float64) (temps, rates []float64) {
	temps = m.TempRange()
	rates = make([]float64, len(temps))
	for i, T := range temps {
		rates[i] = m.Rate(T, g)
	}
	return temps, rates
}

// AlbedoCurve samples the albedo over TempRange.
func (m *Model) AlbedoCurve() (temps, albedo []float64) {
	temps = m.TempRange()
	albedo = make([]float64, len(temps))
	for i, T := range temps {
		albedo[i] = m.Albedo(T)
	}
	return temps, albedo
}

// Equilibria returns, in ascending order, the left end T[i] of every grid
// cell where rate[i]·rate[i+1] <= 0. Roots are not interpolated; the
// result is accurate to one grid cell. An empty result means no root lies
// inside the domain.
func (m *Model) Equilibria(g float64) ([]float64, error) {
	if err := m.ValidateGreenhouse(g); err != nil {
		return nil, err
	}

	temps, rates := m.RateCurve(g)
	equilibria := make([]float64, 0, 3)
	for i := 0; i < len(rates)-1; i++ {
		if rates[i]*rates[i+1] <= 0 {
			equilibria = append(equilibria, temps[i])
		}
	}
	return equilibria, nil
}

// StableEquilibrium scans the grid from MinTemp upwards and returns the
// first zero-crossing cell whose rate slope is negative. The first match
// wins: with coexisting ice and hot states the colder one is returned
// regardless of the current climate. found is false when no stable state
// lies inside the domain.
func (m *Model) StableEquilibrium(g float64) (T float64, found bool, err error) {
	if err := m.ValidateGreenhouse(g); err != nil {
		return 0, false, err
	}

	temps, rates := m.RateCurve(g)
	for i := 0; i < len(rates)-1; i++ {
		if rates[i]*rates[i+1] <= 0 && Slope(temps, rates, i) < 0 {
			return temps[i], true, nil
		}
	}
	return 0, false, nil
}

// Slope is the forward difference of rates over grid cell [i, i+1].
func Slope(temps, rates []float64, i int) float64 {
	return (rates[i+1] - rates[i]) / (temps[i+1] - temps[i])
}
