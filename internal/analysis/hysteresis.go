package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/dynamo"
)

// NearestStable returns the stable zero crossing closest to prev within
// [prev-window, prev+window] (clipped to the model domain), scanning with
// a fine step and a centred slope. When the window holds no stable point
// it falls back to the model's first-match StableEquilibrium.
func NearestStable(m *climate.Model, g, prev, window, step float64) (float64, bool, error) {
	if err := m.ValidateGreenhouse(g); err != nil {
		return 0, false, err
	}
	if !(window > 0) || !(step > 0) || !dynamo.IsValid(prev) {
		return 0, false, fmt.Errorf("%w: need finite prev and positive window and step", dynamo.ErrInvalidArgument)
	}

	lo := math.Max(m.MinTemp(), prev-window)
	hi := math.Min(m.MaxTemp(), prev+window)

	if lo < hi {
		n := int(math.Floor((hi-lo)/step+1e-9)) + 1
		temps := make([]float64, n)
		rates := make([]float64, n)
		for i := range temps {
			temps[i] = lo + float64(i)*step
			rates[i] = m.Rate(temps[i], g)
		}

		best, found := 0.0, false
		for i := 1; i < n-1; i++ {
			crosses := rates[i-1]*rates[i] <= 0 || rates[i]*rates[i+1] <= 0
			if !crosses {
				continue
			}
			slope := (rates[i+1] - rates[i-1]) / (temps[i+1] - temps[i-1])
			if slope >= 0 {
				continue
			}
			if !found || math.Abs(temps[i]-prev) < math.Abs(best-prev) {
				best, found = temps[i], true
			}
		}
		if found {
			return best, true, nil
		}
	}

	return m.StableEquilibrium(g)
}

type HysteresisConfig struct {
	GStart float64 // lower end of the greenhouse ramp
	GEnd   float64 // upper end of the greenhouse ramp
	Steps  int     // samples per leg, including both ends
	T0     float64 // temperature the forward leg starts from, K
	Window float64 // NearestStable search half-width, K
	Step   float64 // NearestStable scan step, K
}

func DefaultHysteresisConfig() HysteresisConfig {
	return HysteresisConfig{
		GStart: 0.3,
		GEnd:   0.45,
		Steps:  61,
		T0:     230,
		Window: 50,
		Step:   0.1,
	}
}

type HysteresisPoint struct {
	G     float64
	T     float64
	Found bool
}

// HysteresisLoop holds the forward (GStart→GEnd) and backward (GEnd→GStart)
// legs. Backward[i] is sampled at the same g as Forward[len-1-i].
type HysteresisLoop struct {
	Forward  []HysteresisPoint
	Backward []HysteresisPoint
}

// Hysteresis ramps g from GStart to GEnd and back, at each g moving the
// climate to the stable state nearest its previous one. If no stable state
// exists for some g the previous temperature is carried forward and the
// point is marked not found.
func Hysteresis(m *climate.Model, cfg HysteresisConfig) (*HysteresisLoop, error) {
	if cfg.Steps < 2 {
		return nil, fmt.Errorf("%w: hysteresis needs at least 2 steps per leg, got %d", dynamo.ErrInvalidArgument, cfg.Steps)
	}
	for _, g := range []float64{cfg.GStart, cfg.GEnd} {
		if err := m.ValidateGreenhouse(g); err != nil {
			return nil, err
		}
	}

	loop := &HysteresisLoop{
		Forward:  make([]HysteresisPoint, 0, cfg.Steps),
		Backward: make([]HysteresisPoint, 0, cfg.Steps),
	}

	current := cfg.T0
	leg := func(from, to float64, out *[]HysteresisPoint) error {
		for i := 0; i < cfg.Steps; i++ {
			g := from + (to-from)*float64(i)/float64(cfg.Steps-1)
			T, found, err := NearestStable(m, g, current, cfg.Window, cfg.Step)
			if err != nil {
				return err
			}
			if found {
				current = T
			}
			*out = append(*out, HysteresisPoint{G: g, T: current, Found: found})
		}
		return nil
	}

	if err := leg(cfg.GStart, cfg.GEnd, &loop.Forward); err != nil {
		return nil, err
	}
	if err := leg(cfg.GEnd, cfg.GStart, &loop.Backward); err != nil {
		return nil, err
	}
	return loop, nil
}

// Tipping returns the g at which a leg first jumps across the freezing
// point, and false if it never does.
func Tipping(leg []HysteresisPoint) (float64, bool) {
	for i := 1; i < len(leg); i++ {
		if (leg[i-1].T > climate.FreezingPoint) != (leg[i].T > climate.FreezingPoint) {
			return leg[i].G, true
		}
	}
	return 0, false
}
