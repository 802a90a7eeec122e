package config

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/vecmath"
)

const (
	// DefaultRate is simulated seconds per real second: a year every 32s.
	DefaultRate     = physics.Year / 32
	DefaultFPS      = 60
	DefaultDuration = physics.Year
	DefaultTracers  = 250
	DefaultScenario = "solar"
)

type Config struct {
	Scenario   string       `yaml:"scenario"`
	Integrator string       `yaml:"integrator"`
	G          float64      `yaml:"g"`
	Softening  float64      `yaml:"softening"`
	Rate       float64      `yaml:"rate"`
	FPS        int          `yaml:"fps"`
	Dt         float64      `yaml:"dt,omitempty"`
	Duration   float64      `yaml:"duration"`
	Seed       int64        `yaml:"seed"`
	Tracers    int          `yaml:"tracers"`
	Bodies     []BodyConfig `yaml:"bodies,omitempty"`
}

// BodyConfig is one inline catalog row. Positions are in AU unless Units
// is "m"; velocities are always m/s.
type BodyConfig struct {
	Name     string     `yaml:"name"`
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
	Units    string     `yaml:"units,omitempty"`
	Color    string     `yaml:"color,omitempty"`
	Radius   float64    `yaml:"radius,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:   DefaultScenario,
		Integrator: string(integrators.DefaultKind),
		G:          physics.G,
		Rate:       DefaultRate,
		FPS:        DefaultFPS,
		Duration:   DefaultDuration,
		Seed:       1,
		Tracers:    DefaultTracers,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// TimeStep is the explicit dt when set, otherwise rate/fps so that one
// rendered frame advances the system by one step.
func (c *Config) TimeStep() float64 {
	if c.Dt > 0 {
		return c.Dt
	}
	if c.FPS <= 0 {
		return 0
	}
	return c.Rate / float64(c.FPS)
}

// Steps is the number of whole steps covering Duration.
func (c *Config) Steps() int {
	dt := c.TimeStep()
	if dt <= 0 {
		return 0
	}
	return int(math.Round(c.Duration / dt))
}

func (c *Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"dt", c.Dt}, {"g", c.G}, {"rate", c.Rate}, {"duration", c.Duration}, {"softening", c.Softening},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			errs = append(errs, fmt.Errorf("%s must be finite, got %g", f.name, f.value))
		}
	}
	if c.Dt < 0 {
		errs = append(errs, fmt.Errorf("dt must be positive when set, got %g", c.Dt))
	}
	if c.TimeStep() <= 0 {
		errs = append(errs, fmt.Errorf("time step must be positive (dt=%g, rate=%g, fps=%d)", c.Dt, c.Rate, c.FPS))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.Duration < 0 {
		errs = append(errs, fmt.Errorf("duration must be non-negative, got %g", c.Duration))
	}
	if c.G <= 0 {
		errs = append(errs, fmt.Errorf("g must be positive, got %g", c.G))
	}
	if c.Softening < 0 {
		errs = append(errs, fmt.Errorf("softening must be non-negative, got %g", c.Softening))
	}
	if c.Tracers < 0 {
		errs = append(errs, fmt.Errorf("tracers must be non-negative, got %d", c.Tracers))
	}
	if _, err := integrators.ParseKind(c.Integrator); err != nil {
		errs = append(errs, err)
	}
	if len(c.Bodies) == 0 {
		if _, err := physics.LookupScenario(c.Scenario); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", dynamo.ErrParameterBounds, errors.Join(errs...))
	}
	return nil
}

func (c *Config) Kind() integrators.Kind {
	k, err := integrators.ParseKind(c.Integrator)
	if err != nil {
		return integrators.DefaultKind
	}
	return k
}

func (c *Config) ForceModel() physics.Gravity {
	return physics.Gravity{G: c.G, Softening: c.Softening}
}

// Catalog returns the initial conditions in SI units: the inline bodies
// when present, otherwise the named scenario seeded from Seed.
func (c *Config) Catalog() ([]dynamo.InitialCondition, error) {
	if len(c.Bodies) == 0 {
		sc, err := physics.LookupScenario(c.Scenario)
		if err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(c.Seed))
		return sc.Build(rng, c.Tracers), nil
	}

	out := make([]dynamo.InitialCondition, len(c.Bodies))
	for i, b := range c.Bodies {
		ic, err := b.initialCondition()
		if err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, b.Name, err)
		}
		out[i] = ic
	}
	return out, nil
}

func (b BodyConfig) initialCondition() (dynamo.InitialCondition, error) {
	scale := physics.AU
	switch b.Units {
	case "", "au":
	case "m":
		scale = 1
	default:
		return dynamo.InitialCondition{}, fmt.Errorf("unknown units %q: %w", b.Units, dynamo.ErrParameterBounds)
	}

	col := colorful.Color{R: 1, G: 1, B: 1}
	if b.Color != "" {
		var err error
		col, err = colorful.Hex(b.Color)
		if err != nil {
			return dynamo.InitialCondition{}, fmt.Errorf("color %q: %w", b.Color, err)
		}
	}

	radius := b.Radius
	if radius == 0 {
		radius = 1
	}

	return dynamo.InitialCondition{
		Name:     b.Name,
		Mass:     b.Mass,
		Position: vecmath.New(b.Position[0], b.Position[1], b.Position[2]).Mul(scale),
		Velocity: vecmath.New(b.Velocity[0], b.Velocity[1], b.Velocity[2]),
		Payload:  dynamo.Payload{Color: col, Radius: radius},
	}, nil
}
