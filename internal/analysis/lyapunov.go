package analysis

import (
	"math"

	"github.com/san-kum/icehouse/internal/dynamo"
)

// LyapunovExponent estimates the local exponential divergence rate (1/s)
// of trajectories started perturbation apart. The companion trajectory is
// pulled back to the initial separation after every step, so near an
// equilibrium the result approaches the slope of dT/dt there. Negative
// values mean perturbations decay.
func LyapunovExponent(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0, dt float64,
	steps int,
	perturbation float64,
) float64 {
	if steps <= 0 || !(dt > 0) || perturbation == 0 {
		return 0
	}

	d0 := math.Abs(perturbation)
	x, xp := x0, x0+perturbation
	t := 0.0

	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, t, dt)
		xp = integ.Step(sys, xp, t, dt)
		t += dt

		if !dynamo.IsValid(x) || !dynamo.IsValid(xp) {
			break
		}

		sep := math.Abs(xp - x)
		if sep == 0 {
			// the two trajectories merged below float resolution
			xp = x + perturbation
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		xp = x + (xp-x)*(d0/sep)
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
