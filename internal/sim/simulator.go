package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/icehouse/internal/dynamo"
)

type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Stepper
	metrics    []Metric
	observers  []Observer
}

func New(sys dynamo.System, integrator dynamo.Stepper) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 for cfg.Steps samples. Sample i sits at time
// i*cfg.Dt. Its rate is the k1 of the step that produced it, that is the
// derivative at sample i-1; sample 0 carries the derivative at x0, so the
// first two rates are equal. On cancellation or a non-finite state the
// samples gathered so far are returned together with the error.
func (s *Simulator) Run(ctx context.Context, x0 float64, cfg Config) (*Result, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if !dynamo.IsValid(x0) {
		return nil, fmt.Errorf("%w: initial state must be finite, got %v", dynamo.ErrInvalidArgument, x0)
	}

	result := &Result{
		Trajectory: dynamo.NewTrajectory(cfg.Steps),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0
	t := 0.0
	k1 := s.sys.Derive(x, t)
	s.record(result, x, k1, t)

	var runErr error
	for i := 1; i < cfg.Steps; i++ {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
			break
		}
		if i > 1 {
			k1 = s.sys.Derive(x, t)
		}

		next := s.integrator.StepFrom(s.sys, x, k1, t, cfg.Dt)
		if cfg.ValidateState && !dynamo.IsValid(next) {
			runErr = &dynamo.SimulationError{Step: i, Time: float64(i) * cfg.Dt, State: next, Wrapped: dynamo.ErrInvalidState}
			break
		}

		x = next
		t = float64(i) * cfg.Dt
		s.record(result, x, k1, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}

func (s *Simulator) record(result *Result, x, rate, t float64) {
	result.Trajectory.Append(t, x, rate)
	for _, m := range s.metrics {
		m.Observe(x, rate, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, rate, t)
	}
}

func ValidateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrInvalidArgument, cfg.Steps)
	}
	if !(cfg.Dt > 0) || !dynamo.IsValid(cfg.Dt) {
		return fmt.Errorf("%w: dt must be positive and finite, got %v", dynamo.ErrInvalidArgument, cfg.Dt)
	}
	return nil
}
