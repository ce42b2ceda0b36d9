package config

import "sort"

var Presets = map[string]RunConfig{
	"present-day": {
		Description: "present forcing from today's mean temperature",
		Integrator:  "rk4", Greenhouse: 0.4, InitialTemp: 288, Steps: 1000, Dt: 1e5,
	},
	"bistable": {
		Description: "present forcing from a frozen start; settles on the ice branch",
		Integrator:  "rk4", Greenhouse: 0.4, InitialTemp: 240, Steps: 1000, Dt: 1e5,
	},
	"snowball": {
		Description: "weak greenhouse; only the ice-covered state exists",
		Integrator:  "rk4", Greenhouse: 0.3, InitialTemp: 288, Steps: 1000, Dt: 1e5,
	},
	"hothouse": {
		Description: "strong greenhouse; only the ice-free state exists",
		Integrator:  "rk4", Greenhouse: 0.45, InitialTemp: 250, Steps: 1000, Dt: 1e5,
	},
}

// GetPreset returns a fresh default config with the named run settings, or
// nil for an unknown name.
func GetPreset(name string) *Config {
	run, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Run = run
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
