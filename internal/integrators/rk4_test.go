package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/icehouse/internal/dynamo"
)

// exponential decay dx/dt = -x
var decay = dynamo.SystemFunc(func(x, _ float64) float64 { return -x })

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := 1.0
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(decay, x, float64(i)*dt, dt)
	}

	expected := math.Exp(-float64(steps) * dt)
	if math.Abs(x-expected) > 1e-9 {
		t.Errorf("error too large: got %.12f, expected %.12f", x, expected)
	}
}

func TestRK4FourthOrder(t *testing.T) {
	integ := NewRK4()

	errAt := func(dt float64) float64 {
		x := 1.0
		n := int(math.Round(1.0 / dt))
		for i := 0; i < n; i++ {
			x = integ.Step(decay, x, float64(i)*dt, dt)
		}
		return math.Abs(x - math.Exp(-1))
	}

	ratio := errAt(0.1) / errAt(0.05)
	// halving dt should cut the error by ~2^4
	if ratio < 12 || ratio > 20 {
		t.Errorf("expected error ratio ~16, got %.2f", ratio)
	}
}

func TestRK4StepFromMatchesStep(t *testing.T) {
	integ := NewRK4()
	sys := dynamo.SystemFunc(func(x, t float64) float64 { return math.Sin(x) + t })

	a := integ.Step(sys, 0.3, 1.0, 0.05)
	b := integ.StepFrom(sys, 0.3, sys.Derive(0.3, 1.0), 1.0, 0.05)
	if a != b {
		t.Errorf("Step and StepFrom disagree: %v vs %v", a, b)
	}
}

func TestEulerAccuracy(t *testing.T) {
	integ := NewEuler()

	x := 1.0
	dt := 0.001
	for i := 0; i < 1000; i++ {
		x = integ.Step(decay, x, float64(i)*dt, dt)
	}

	if math.Abs(x-math.Exp(-1)) > 1e-3 {
		t.Errorf("euler error too large: got %.6f, expected %.6f", x, math.Exp(-1))
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"euler", "rk4"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) failed: %v", name, err)
		}
	}

	if _, err := ByName("rk45"); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("ByName(rk45) = %v, want ErrInvalidArgument", err)
	}

	names := Names()
	if len(names) != 2 || names[0] != "euler" || names[1] != "rk4" {
		t.Errorf("unexpected names: %v", names)
	}
}
