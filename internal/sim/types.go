package sim

import "github.com/san-kum/icehouse/internal/dynamo"

// Metric accumulates a scalar summary over the samples of a run.
type Metric interface {
	Name() string
	Observe(x, rate, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x, rate, t float64)
}

// Config fixes the shape of a run: Steps samples spaced Dt apart.
// There is no adaptive step control.
type Config struct {
	Steps         int
	Dt            float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Steps:         1000,
		Dt:            1e4,
		ValidateState: true,
	}
}

type Result struct {
	Trajectory *dynamo.Trajectory
	Metrics    map[string]float64
}
