package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/dynamo"
	"github.com/san-kum/icehouse/internal/integrators"
	"github.com/san-kum/icehouse/internal/sim"
)

const (
	DefaultIntegrator = "rk4"
	DefaultSteps      = 1000
	DefaultDt         = 1e5
)

type Config struct {
	Physical   PhysicalConfig   `yaml:"physical"`
	Model      ModelConfig      `yaml:"model"`
	Simulation SimulationConfig `yaml:"simulation"`
	Run        RunConfig        `yaml:"run"`
}

type PhysicalConfig struct {
	SolarConstant   float64 `yaml:"solar_constant"`
	StefanBoltzmann float64 `yaml:"stefan_boltzmann"`
	EarthRadius     float64 `yaml:"earth_radius"`
}

type ModelConfig struct {
	A1           float64 `yaml:"a1"`
	A2           float64 `yaml:"a2"`
	TCrit        float64 `yaml:"t_crit"`
	DeltaT       float64 `yaml:"delta_t"`
	HeatCapacity float64 `yaml:"heat_capacity"`
	MinTemp      float64 `yaml:"min_temp"`
	MaxTemp      float64 `yaml:"max_temp"`
}

type SimulationConfig struct {
	TempResolution int `yaml:"temp_resolution"`
}

// RunConfig describes a single integration.
type RunConfig struct {
	Description string  `yaml:"description,omitempty"`
	Integrator  string  `yaml:"integrator"`
	Greenhouse  float64 `yaml:"greenhouse"`
	InitialTemp float64 `yaml:"initial_temp"`
	Steps       int     `yaml:"steps"`
	Dt          float64 `yaml:"dt"`
}

func DefaultConfig() *Config {
	p := climate.DefaultParams()
	return &Config{
		Physical: PhysicalConfig{
			SolarConstant:   p.Physical.SolarConstant,
			StefanBoltzmann: p.Physical.StefanBoltzmann,
			EarthRadius:     p.Physical.EarthRadius,
		},
		Model: ModelConfig{
			A1:           p.Model.A1,
			A2:           p.Model.A2,
			TCrit:        p.Model.TCrit,
			DeltaT:       p.Model.DeltaT,
			HeatCapacity: p.Model.HeatCapacity,
			MinTemp:      p.Model.MinTemp,
			MaxTemp:      p.Model.MaxTemp,
		},
		Simulation: SimulationConfig{TempResolution: p.Simulation.TempResolution},
		Run: RunConfig{
			Integrator:  DefaultIntegrator,
			Greenhouse:  p.Model.DefaultGreenhouse,
			InitialTemp: p.Model.DefaultTemp,
			Steps:       DefaultSteps,
			Dt:          DefaultDt,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so a file only needs the
// keys it changes.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Overlay(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay applies the keys present in a YAML file to cfg, leaving the
// rest untouched. It lets a file refine a preset.
func Overlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file layout into model parameters. The run's
// greenhouse and initial temperature become the model defaults.
func (c *Config) Params() climate.Params {
	return climate.Params{
		Physical: climate.PhysicalConstants{
			SolarConstant:   c.Physical.SolarConstant,
			StefanBoltzmann: c.Physical.StefanBoltzmann,
			EarthRadius:     c.Physical.EarthRadius,
		},
		Model: climate.ModelParams{
			A1:                c.Model.A1,
			A2:                c.Model.A2,
			TCrit:             c.Model.TCrit,
			DeltaT:            c.Model.DeltaT,
			HeatCapacity:      c.Model.HeatCapacity,
			MinTemp:           c.Model.MinTemp,
			MaxTemp:           c.Model.MaxTemp,
			DefaultGreenhouse: c.Run.Greenhouse,
			DefaultTemp:       c.Run.InitialTemp,
		},
		Simulation: climate.SimulationParams{TempResolution: c.Simulation.TempResolution},
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{Steps: c.Run.Steps, Dt: c.Run.Dt, ValidateState: true}
}

// Validate checks the model parameters, the run settings and the
// integrator name.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if err := sim.ValidateConfig(c.SimConfig()); err != nil {
		return err
	}
	if _, err := integrators.ByName(c.Run.Integrator); err != nil {
		return err
	}
	return nil
}

// NewModel builds a validated climate model from the config.
func (c *Config) NewModel() (*climate.Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return climate.New(c.Params())
}

// setters maps the tunable keys accepted by Set onto config fields. Keys
// match the YAML names.
var setters = map[string]func(*Config, float64){
	"solar_constant": func(c *Config, v float64) { c.Physical.SolarConstant = v },
	"a1":             func(c *Config, v float64) { c.Model.A1 = v },
	"a2":             func(c *Config, v float64) { c.Model.A2 = v },
	"t_crit":         func(c *Config, v float64) { c.Model.TCrit = v },
	"delta_t":        func(c *Config, v float64) { c.Model.DeltaT = v },
	"heat_capacity":  func(c *Config, v float64) { c.Model.HeatCapacity = v },
	"greenhouse":     func(c *Config, v float64) { c.Run.Greenhouse = v },
	"initial_temp":   func(c *Config, v float64) { c.Run.InitialTemp = v },
	"dt":             func(c *Config, v float64) { c.Run.Dt = v },
}

// Set assigns a single numeric setting by its YAML key.
func (c *Config) Set(key string, value float64) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (available: %v)", dynamo.ErrInvalidArgument, key, SettingNames())
	}
	set(c, value)
	return nil
}

func SettingNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
