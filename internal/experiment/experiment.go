// Package experiment turns a config into a ready-to-run climate simulation.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/config"
	"github.com/san-kum/icehouse/internal/dynamo"
	"github.com/san-kum/icehouse/internal/integrators"
	"github.com/san-kum/icehouse/internal/metrics"
	"github.com/san-kum/icehouse/internal/sim"
	"github.com/san-kum/icehouse/internal/storage"
)

type Experiment struct {
	Name  string
	cfg   *config.Config
	model *climate.Model
}

// New validates cfg and builds the model it describes. name labels stored
// runs; an empty name becomes "custom".
func New(name string, cfg *config.Config) (*Experiment, error) {
	m, err := cfg.NewModel()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "custom"
	}
	return &Experiment{Name: name, cfg: cfg, model: m}, nil
}

func (e *Experiment) Model() *climate.Model   { return e.model }
func (e *Experiment) Config() *config.Config { return e.cfg }

// DefaultMetrics returns fresh metric instances for one run of m.
func DefaultMetrics(m *climate.Model) []sim.Metric {
	p := m.Params().Model
	return []sim.Metric{
		metrics.NewConvergence(),
		metrics.NewImbalance(p.HeatCapacity),
		metrics.NewStability(p.MinTemp, p.MaxTemp),
	}
}

// Run integrates from the configured initial temperature. The returned
// duration is wall-clock time spent integrating.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, time.Duration, error) {
	integ, err := integrators.ByName(e.cfg.Run.Integrator)
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	res, err := e.model.Run(ctx, e.cfg.Run.InitialTemp, e.cfg.Run.Greenhouse, e.cfg.SimConfig(), integ, DefaultMetrics(e.model)...)
	return res, time.Since(start), err
}

// RunEnsemble integrates from each of temps concurrently with the
// configured forcing, returning one result per start in input order.
func (e *Experiment) RunEnsemble(ctx context.Context, temps []float64) ([]*sim.Result, error) {
	if _, err := integrators.ByName(e.cfg.Run.Integrator); err != nil {
		return nil, err
	}
	for _, T := range temps {
		if !dynamo.IsValid(T) || T <= 0 {
			return nil, fmt.Errorf("%w: initial temperature must be a positive finite kelvin value, got %v", dynamo.ErrInvalidArgument, T)
		}
	}

	newInteg := func() dynamo.Stepper {
		integ, _ := integrators.ByName(e.cfg.Run.Integrator)
		return integ
	}
	ens := sim.NewEnsemble(e.model.System(e.cfg.Run.Greenhouse), newInteg, func() []sim.Metric {
		return DefaultMetrics(e.model)
	})
	return ens.Run(ctx, temps, e.cfg.SimConfig())
}

// Metadata describes a finished run for storage.
func (e *Experiment) Metadata(res *sim.Result) storage.RunMetadata {
	return storage.RunMetadata{
		Name:        e.Name,
		Integrator:  e.cfg.Run.Integrator,
		Greenhouse:  e.cfg.Run.Greenhouse,
		InitialTemp: e.cfg.Run.InitialTemp,
		Dt:          e.cfg.Run.Dt,
		Params:      e.model.Params(),
		Metrics:     res.Metrics,
	}
}
