package integrators

import "github.com/san-kum/icehouse/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x, t, dt float64) float64 {
	return x + dt*sys.Derive(x, t)
}

func (e *Euler) StepFrom(_ dynamo.System, x, k1, _, dt float64) float64 {
	return x + dt*k1
}
