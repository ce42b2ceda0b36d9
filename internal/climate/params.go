package climate

import (
	"fmt"
	"math"

	"github.com/san-kum/icehouse/internal/dynamo"
)

// FreezingPoint separates ice-covered from ice-free stable states (K).
const FreezingPoint = 273.0

type PhysicalConstants struct {
	SolarConstant   float64 // S0, W/m²
	StefanBoltzmann float64 // σ, W/(m²·K⁴)
	EarthRadius     float64 // R, m
}

type ModelParams struct {
	A1                float64 // maximum (ice-covered) albedo
	A2                float64 // albedo swing between cold and warm limits
	TCrit             float64 // centre of the albedo transition, K
	DeltaT            float64 // width of the albedo transition, K
	HeatCapacity      float64 // C, J/(m²·K)
	MinTemp           float64 // lower bound of the analysis domain, K
	MaxTemp           float64 // upper bound of the analysis domain, K
	DefaultGreenhouse float64
	DefaultTemp       float64 // K
}

type SimulationParams struct {
	TempResolution int // samples in a temperature sweep
}

type Params struct {
	Physical   PhysicalConstants
	Model      ModelParams
	Simulation SimulationParams
}

func DefaultPhysicalConstants() PhysicalConstants {
	return PhysicalConstants{
		SolarConstant:   1361,
		StefanBoltzmann: 5.67e-8,
		EarthRadius:     6.371e6,
	}
}

func DefaultModelParams() ModelParams {
	return ModelParams{
		A1:                0.58,
		A2:                0.47,
		TCrit:             283,
		DeltaT:            18,
		HeatCapacity:      HeatCapacityFromColumn(1e4, 1, 1e3),
		MinTemp:           273 - 50,
		MaxTemp:           273 + 50,
		DefaultGreenhouse: 0.4,
		DefaultTemp:       288,
	}
}

func DefaultSimulationParams() SimulationParams {
	return SimulationParams{TempResolution: 100}
}

func DefaultParams() Params {
	return Params{
		Physical:   DefaultPhysicalConstants(),
		Model:      DefaultModelParams(),
		Simulation: DefaultSimulationParams(),
	}
}

// HeatCapacityFromColumn returns the areal heat capacity C = h·ρ·cp of an
// atmospheric column of height h (m), mean density rho (kg/m³) and specific
// heat cp (J/(kg·K)).
func HeatCapacityFromColumn(h, rho, cp float64) float64 {
	return h * rho * cp
}

func (p Params) Validate() error {
	check := func(ok bool, format string, args ...any) error {
		if ok {
			return nil
		}
		return fmt.Errorf("%w: %s", dynamo.ErrParameterBounds, fmt.Sprintf(format, args...))
	}

	pc, mp := p.Physical, p.Model
	for _, err := range []error{
		check(pc.SolarConstant > 0, "solar constant must be positive, got %v", pc.SolarConstant),
		check(pc.StefanBoltzmann > 0, "stefan-boltzmann constant must be positive, got %v", pc.StefanBoltzmann),
		check(pc.EarthRadius > 0, "earth radius must be positive, got %v", pc.EarthRadius),
		check(mp.A2 >= 0, "albedo swing A2 must be non-negative, got %v", mp.A2),
		check(mp.A1 <= 1 && mp.A1-mp.A2 >= 0, "albedo range [A1-A2, A1] must lie in [0, 1], got [%v, %v]", mp.A1-mp.A2, mp.A1),
		check(mp.DeltaT > 0, "albedo transition width must be positive, got %v", mp.DeltaT),
		check(mp.HeatCapacity > 0, "heat capacity must be positive, got %v", mp.HeatCapacity),
		check(mp.MinTemp > 0 && mp.MinTemp < mp.MaxTemp, "temperature domain must satisfy 0 < min < max, got [%v, %v]", mp.MinTemp, mp.MaxTemp),
		check(!math.IsInf(mp.MaxTemp, 0), "temperature domain must be finite"),
		check(mp.DefaultTemp > 0, "default temperature must be positive, got %v", mp.DefaultTemp),
		check(validGreenhouse(mp.DefaultGreenhouse), "default greenhouse must lie in [0, 1), got %v", mp.DefaultGreenhouse),
		check(p.Simulation.TempResolution >= 2, "temperature resolution must be at least 2, got %d", p.Simulation.TempResolution),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// validGreenhouse reports whether g is inside the domain of the canonical
// outgoing-energy form σT⁴(1-g): g >= 1 removes (or reverses) the outgoing
// flux and g < 0 amplifies it.
func validGreenhouse(g float64) bool {
	return g >= 0 && g < 1
}
