package climate

import (
	"context"
	"fmt"

	"github.com/san-kum/icehouse/internal/dynamo"
	"github.com/san-kum/icehouse/internal/integrators"
	"github.com/san-kum/icehouse/internal/sim"
)

// Simulate integrates dT/dt from T0 with classical RK4 at a fixed step dt
// and returns steps samples at times 0, dt, 2dt, ... Rates[i] is the k1 of
// the step that produced Temperatures[i], i.e. dT/dt at Temperatures[i-1].
// Rates[0] is the rate at T0, so Rates[1] == Rates[0].
//
// steps <= 0, dt <= 0, a non-positive or non-finite T0 and a greenhouse
// parameter outside [0, 1) fail with dynamo.ErrInvalidArgument. If the
// state stops being finite the run fails with a *dynamo.SimulationError.
func (m *Model) Simulate(T0, g float64, steps int, dt float64) (*dynamo.Trajectory, error) {
	return m.SimulateContext(context.Background(), T0, g, steps, dt)
}

func (m *Model) SimulateContext(ctx context.Context, T0, g float64, steps int, dt float64) (*dynamo.Trajectory, error) {
	res, err := m.Run(ctx, T0, g, sim.Config{Steps: steps, Dt: dt, ValidateState: true}, integrators.NewRK4())
	if err != nil {
		return nil, err
	}
	return res.Trajectory, nil
}

// Run is the general form of Simulate: any fixed-step integrator, optional
// metrics, and the partial trajectory is kept when the run is interrupted.
func (m *Model) Run(ctx context.Context, T0, g float64, cfg sim.Config, integ dynamo.Stepper, metrics ...sim.Metric) (*sim.Result, error) {
	if err := sim.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if err := m.ValidateGreenhouse(g); err != nil {
		return nil, err
	}
	if !dynamo.IsValid(T0) || T0 <= 0 {
		return nil, fmt.Errorf("%w: initial temperature must be a positive finite kelvin value, got %v", dynamo.ErrInvalidArgument, T0)
	}

	s := sim.New(m.System(g), integ)
	for _, mt := range metrics {
		s.AddMetric(mt)
	}
	return s.Run(ctx, T0, cfg)
}
