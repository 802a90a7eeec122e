package config

import (
	"sort"

	"github.com/san-kum/gravsim/internal/physics"
)

var Presets = map[string]map[string]*Config{
	"solar": {
		"default": {
			Scenario: "solar", Integrator: "rk4", G: physics.G, Rate: DefaultRate, FPS: 60,
			Duration: physics.Year, Seed: 1, Tracers: DefaultTracers,
		},
		"planets": {
			Scenario: "solar", Integrator: "leapfrog", G: physics.G, Rate: DefaultRate, FPS: 60,
			Duration: 5 * physics.Year, Seed: 1,
		},
		"fast": {
			Scenario: "solar", Integrator: "leapfrog", G: physics.G, Rate: physics.Year / 4, FPS: 60,
			Duration: 10 * physics.Year, Seed: 1, Tracers: DefaultTracers,
		},
	},
	"kepler": {
		"year": {
			Scenario: "kepler", Integrator: "rk4", G: physics.G, FPS: 60,
			Dt: physics.Year / 1920, Duration: physics.Year,
		},
		"coarse": {
			Scenario: "kepler", Integrator: "euler", G: physics.G, FPS: 60,
			Dt: physics.Year / 100, Duration: 10 * physics.Year,
		},
	},
	"four": {
		"dance": {
			Scenario: "four", Integrator: "rk4", G: physics.G, Rate: DefaultRate, FPS: 60,
			Duration: 5 * physics.Year,
		},
		"softened": {
			Scenario: "four", Integrator: "leapfrog", G: physics.G, Softening: 1e9,
			Rate: DefaultRate, FPS: 60, Duration: 5 * physics.Year,
		},
	},
	"binary": {
		"circular": {
			Scenario: "binary", Integrator: "leapfrog", G: physics.G, Rate: DefaultRate, FPS: 60,
			Duration: 2 * physics.Year,
		},
	},
}

// GetPreset returns a copy so callers may override fields freely.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
