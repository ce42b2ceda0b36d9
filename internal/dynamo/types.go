package dynamo

import "math"

// System is a one-dimensional ODE dx/dt = Derive(x, t).
type System interface {
	Derive(x float64, t float64) float64
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(x, t float64) float64

func (f SystemFunc) Derive(x, t float64) float64 { return f(x, t) }

type Integrator interface {
	Step(sys System, x float64, t float64, dt float64) float64
}

// Stepper is an Integrator that can reuse the derivative k1 = Derive(x, t)
// already evaluated by the caller at the start of the step.
type Stepper interface {
	Integrator
	StepFrom(sys System, x, k1, t, dt float64) float64
}

// IsValid reports whether v is a finite number.
func IsValid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Trajectory holds a sampled run. All three slices have equal length.
// Rates[i] is the derivative that advanced the run into sample i, which is
// the derivative at sample i-1; Rates[0] is the derivative at the start.
type Trajectory struct {
	Times        []float64
	Temperatures []float64
	Rates        []float64
}

// Point is one (time, temperature, rate) sample of a Trajectory.
type Point struct {
	Time        float64
	Temperature float64
	Rate        float64
}

func NewTrajectory(capacity int) *Trajectory {
	return &Trajectory{
		Times:        make([]float64, 0, capacity),
		Temperatures: make([]float64, 0, capacity),
		Rates:        make([]float64, 0, capacity),
	}
}

func (tr *Trajectory) Append(t, x, rate float64) {
	tr.Times = append(tr.Times, t)
	tr.Temperatures = append(tr.Temperatures, x)
	tr.Rates = append(tr.Rates, rate)
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

// Final returns the last sample. It panics on an empty trajectory.
func (tr *Trajectory) Final() Point {
	i := len(tr.Times) - 1
	return Point{Time: tr.Times[i], Temperature: tr.Temperatures[i], Rate: tr.Rates[i]}
}

func (tr *Trajectory) Points() []Point {
	pts := make([]Point, len(tr.Times))
	for i := range tr.Times {
		pts[i] = Point{Time: tr.Times[i], Temperature: tr.Temperatures[i], Rate: tr.Rates[i]}
	}
	return pts
}
