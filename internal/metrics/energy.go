package metrics

import "math"

// Imbalance is the mean absolute net radiative flux (W/m²) over a run,
// recovered from the temperature tendency as |dT/dt|·C.
type Imbalance struct {
	name         string
	heatCapacity float64
	samples      int
	total        float64
}

func NewImbalance(heatCapacity float64) *Imbalance {
	return &Imbalance{
		name:         "imbalance",
		heatCapacity: heatCapacity,
	}
}

func (e *Imbalance) Name() string { return e.name }

func (e *Imbalance) Observe(x, rate, t float64) {
	e.total += math.Abs(rate) * e.heatCapacity
	e.samples++
}

func (e *Imbalance) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Imbalance) Reset() {
	e.samples = 0
	e.total = 0
}
