package integrators

import "github.com/san-kum/icehouse/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme with a fixed step.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys dynamo.System, x, t, dt float64) float64 {
	k1 := sys.Derive(x, t)
	return r.StepFrom(sys, x, k1, t, dt)
}

// StepFrom advances x by one step given k1 = sys.Derive(x, t) already
// evaluated by the caller.
func (r *RK4) StepFrom(sys dynamo.System, x, k1, t, dt float64) float64 {
	k2 := sys.Derive(x+0.5*dt*k1, t+0.5*dt)
	k3 := sys.Derive(x+0.5*dt*k2, t+0.5*dt)
	k4 := sys.Derive(x+dt*k3, t+dt)

	return x + dt/6.0*(k1+2*k2+2*k3+k4)
}
