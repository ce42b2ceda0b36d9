package climate

import (
	"fmt"

	"github.com/san-kum/icehouse/internal/dynamo"
)

type Model struct {
	p Params
}

func New(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{p: p}, nil
}

// DefaultModel returns the model for DefaultParams.
func DefaultModel() *Model {
	return &Model{p: DefaultParams()}
}

func (m *Model) Params() Params { return m.p }

func (m *Model) MinTemp() float64 { return m.p.Model.MinTemp }
func (m *Model) MaxTemp() float64 { return m.p.Model.MaxTemp }

// ValidateGreenhouse returns ErrInvalidArgument unless 0 <= g < 1.
func (m *Model) ValidateGreenhouse(g float64) error {
	if !validGreenhouse(g) {
		return fmt.Errorf("%w: greenhouse parameter must lie in [0, 1), got %v", dynamo.ErrInvalidArgument, g)
	}
	return nil
}

// System returns dT/dt at fixed greenhouse parameter g as a dynamo.System.
func (m *Model) System(g float64) dynamo.System {
	return dynamo.SystemFunc(func(x, _ float64) float64 {
		return m.Rate(x, g)
	})
}
