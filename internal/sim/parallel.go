package sim

import (
	"context"

	"github.com/san-kum/icehouse/internal/dynamo"
)

// Ensemble runs the same system from several initial states concurrently.
// Metrics are stateful, so each run gets a fresh set from newMetrics.
type Ensemble struct {
	sys        dynamo.System
	integrator func() dynamo.Stepper
	newMetrics func() []Metric
}

func NewEnsemble(sys dynamo.System, integrator func() dynamo.Stepper, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{sys: sys, integrator: integrator, newMetrics: newMetrics}
}

// Run returns one result per entry of x0s, in the same order. The first
// error encountered (in input order) is returned.
func (e *Ensemble) Run(ctx context.Context, x0s []float64, cfg Config) ([]*Result, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	results := make([]*Result, len(x0s))
	errs := make([]error, len(x0s))

	dynamo.ParallelFor(len(x0s), 1, func(start, end int) {
		for i := start; i < end; i++ {
			s := New(e.sys, e.integrator())
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}
			results[i], errs[i] = s.Run(ctx, x0s[i], cfg)
		}
	})

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
