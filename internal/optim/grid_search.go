// Package optim searches config settings for the run that best meets an
// objective, for example calibrating the greenhouse factor to a target
// temperature.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/icehouse/internal/config"
	"github.com/san-kum/icehouse/internal/dynamo"
	"github.com/san-kum/icehouse/internal/experiment"
	"github.com/san-kum/icehouse/internal/sim"
)

// Objective scores a finished run; lower is better.
type Objective func(*sim.Result) float64

// TargetTemperature scores a run by the distance of its final temperature
// from target.
func TargetTemperature(target float64) Objective {
	return func(r *sim.Result) float64 {
		return math.Abs(r.Trajectory.Final().Temperature - target)
	}
}

// GridSearch evaluates every combination of the given values for the named
// config settings (see config.Set).
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search returns the best combination and its score. Combinations whose
// config is invalid or whose run fails are skipped; if none succeed the
// returned error says so.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%w: %d names for %d ranges", dynamo.ErrInvalidArgument, len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("%w: no valid combination", dynamo.ErrInvalidArgument)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
	}

	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for k, v := range current {
			if err := cfg.Set(k, v); err != nil {
				return err
			}
		}

		exp, err := experiment.New("search", cfg)
		if err != nil {
			return nil
		}
		result, _, err := exp.Run(ctx)
		if err != nil {
			return nil
		}

		if val := objective(result); val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, base, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}
