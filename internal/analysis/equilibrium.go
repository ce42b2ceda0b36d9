package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/dynamo"
)

type Branch int

const (
	Unstable Branch = iota
	Ice
	Hot
)

func (b Branch) String() string {
	switch b {
	case Ice:
		return "ice"
	case Hot:
		return "hot"
	default:
		return "unstable"
	}
}

// Equilibrium is one zero crossing of dT/dt on the model grid.
type Equilibrium struct {
	Temperature float64 // left end of the bracketing grid cell
	Root        float64 // bisection-refined root inside the cell
	Slope       float64 // d(dT/dt)/dT across the cell, 1/s
	Stable      bool
	Branch      Branch
}

// RelaxationTime is the e-folding time (s) of small perturbations around a
// stable equilibrium, -1/Slope. It is +Inf for unstable points.
func (e Equilibrium) RelaxationTime() float64 {
	if !e.Stable {
		return math.Inf(1)
	}
	return -1 / e.Slope
}

// Classify returns the equilibria of m at g in ascending order. Stable
// points above the freezing point are Hot, the rest Ice.
func Classify(m *climate.Model, g float64) ([]Equilibrium, error) {
	roots, err := m.Equilibria(g)
	if err != nil {
		return nil, err
	}

	temps, rates := m.RateCurve(g)
	out := make([]Equilibrium, 0, len(roots))
	for _, T := range roots {
		i := sort.SearchFloat64s(temps, T)
		slope := climate.Slope(temps, rates, i)

		root, err := Refine(m, g, temps[i], temps[i+1], 1e-9)
		if err != nil {
			return nil, err
		}

		eq := Equilibrium{
			Temperature: T,
			Root:        root,
			Slope:       slope,
			Stable:      slope < 0,
		}
		switch {
		case !eq.Stable:
			eq.Branch = Unstable
		case T > climate.FreezingPoint:
			eq.Branch = Hot
		default:
			eq.Branch = Ice
		}
		out = append(out, eq)
	}
	return out, nil
}

// Refine bisects [lo, hi] until it is narrower than tol and returns the
// midpoint. The rate must not have the same strict sign at both ends.
func Refine(m *climate.Model, g, lo, hi, tol float64) (float64, error) {
	if err := m.ValidateGreenhouse(g); err != nil {
		return 0, err
	}
	if !(tol > 0) || !(lo < hi) {
		return 0, fmt.Errorf("%w: need lo < hi and tol > 0, got [%v, %v] tol=%v", dynamo.ErrInvalidArgument, lo, hi, tol)
	}

	fLo, fHi := m.Rate(lo, g), m.Rate(hi, g)
	switch {
	case fLo == 0:
		return lo, nil
	case fHi == 0:
		return hi, nil
	case fLo*fHi > 0:
		return 0, fmt.Errorf("%w: [%v, %v] does not bracket a root", dynamo.ErrInvalidArgument, lo, hi)
	}

	for hi-lo > tol {
		mid := 0.5 * (lo + hi)
		fMid := m.Rate(mid, g)
		if fMid == 0 {
			return mid, nil
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return 0.5 * (lo + hi), nil
}
