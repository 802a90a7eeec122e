package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
)

// Batch is a scripted sequence of runs read from YAML.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun starts from a preset, or the defaults when Preset is empty, and
// applies Overrides on top.
type BatchRun struct {
	Name      string        `yaml:"name"`
	Scenario  string        `yaml:"scenario"`
	Preset    string        `yaml:"preset"`
	Overrides config.Config `yaml:"overrides"`
}

type BatchResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
}

// LoadBatch loads a batch from a YAML file
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	if len(batch.Runs) == 0 {
		return nil, fmt.Errorf("batch %q has no runs: %w", batch.Name, dynamo.ErrParameterBounds)
	}
	return &batch, nil
}

// Resolve builds the configuration for one run.
func (r BatchRun) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Scenario != "" {
		cfg.Scenario = r.Scenario
	}
	if r.Preset != "" {
		p := config.GetPreset(cfg.Scenario, r.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s for %s: %w", r.Preset, cfg.Scenario, dynamo.ErrParameterBounds)
		}
		cfg = p
	}
	apply(cfg, r.Overrides)
	return cfg, nil
}

// apply copies every non-zero field of o onto cfg.
func apply(cfg *config.Config, o config.Config) {
	if o.Integrator != "" {
		cfg.Integrator = o.Integrator
	}
	if o.G != 0 {
		cfg.G = o.G
	}
	if o.Softening != 0 {
		cfg.Softening = o.Softening
	}
	if o.Rate != 0 {
		cfg.Rate = o.Rate
	}
	if o.FPS != 0 {
		cfg.FPS = o.FPS
	}
	if o.Dt != 0 {
		cfg.Dt = o.Dt
	}
	if o.Duration != 0 {
		cfg.Duration = o.Duration
	}
	if o.Seed != 0 {
		cfg.Seed = o.Seed
	}
	if o.Tracers != 0 {
		cfg.Tracers = o.Tracers
	}
	if len(o.Bodies) > 0 {
		cfg.Bodies = o.Bodies
	}
}

// RunBatch executes all runs in order. It stops at the first failure and
// returns the results gathered so far.
func RunBatch(ctx context.Context, batch *Batch, registry *experiment.Registry, progress func(i int, name string)) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(batch.Runs))

	for i, run := range batch.Runs {
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("run-%d", i+1)
		}
		if progress != nil {
			progress(i, name)
		}

		cfg, err := run.Resolve()
		if err != nil {
			return results, fmt.Errorf("run %d (%s): %w", i+1, name, err)
		}
		exp, err := experiment.New(cfg, registry)
		if err != nil {
			return results, fmt.Errorf("run %d (%s) setup: %w", i+1, name, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("run %d (%s): %w", i+1, name, err)
		}
		results = append(results, BatchResult{Name: name, Config: cfg, Result: result})
	}

	return results, nil
}

// StepSweep runs one configuration at a range of step sizes, holding the
// simulated duration fixed.
type StepSweep struct {
	Base   *config.Config
	MinDt  float64
	MaxDt  float64
	Points int
}

type SweepResult struct {
	Dt     float64
	Result *sim.Result
}

// RunSweep steps dt geometrically from MinDt to MaxDt. Every point is an
// independent simulation and they run concurrently. On failure the points
// that finished keep their results.
func RunSweep(ctx context.Context, sweep *StepSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.Points < 2 || sweep.MinDt <= 0 || sweep.MaxDt <= sweep.MinDt {
		return nil, fmt.Errorf("sweep needs at least 2 points and 0 < min < max: %w", dynamo.ErrParameterBounds)
	}

	dts := make([]float64, sweep.Points)
	ratio := sweep.MaxDt / sweep.MinDt
	for i := range dts {
		dts[i] = sweep.MinDt * math.Pow(ratio, float64(i)/float64(sweep.Points-1))
	}

	ens := sim.NewEnsemble(len(dts), func(idx int) (*sim.Simulation, error) {
		cfg := *sweep.Base
		cfg.Dt = dts[idx]
		exp, err := experiment.New(&cfg, registry)
		if err != nil {
			return nil, err
		}
		return exp.Simulation(), nil
	})

	results, err := ens.RunFor(ctx, sweep.Base.Duration)
	out := make([]SweepResult, len(dts))
	for i := range dts {
		out[i] = SweepResult{Dt: dts[i], Result: results[i]}
	}
	return out, err
}
