package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/icehouse/internal/dynamo"
)

var registry = map[string]func() dynamo.Stepper{
	"euler": func() dynamo.Stepper { return NewEuler() },
	"rk4":   func() dynamo.Stepper { return NewRK4() },
}

func ByName(name string) (dynamo.Stepper, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown integrator %q (available: %v)", dynamo.ErrInvalidArgument, name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
