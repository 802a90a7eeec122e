package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

// Experiment is one configured simulation together with its metrics.
type Experiment struct {
	cfg     *config.Config
	sim     *sim.Simulation
	metrics []sim.Metric
}

// New validates cfg and builds the simulation it describes.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	integ, err := reg.GetIntegrator(string(cfg.Kind()))
	if err != nil {
		return nil, err
	}

	fm := cfg.ForceModel()
	s, err := sim.New(catalog,
		sim.WithIntegrator(integ),
		sim.WithForceModel(fm),
		sim.WithDt(cfg.TimeStep()))
	if err != nil {
		return nil, err
	}

	e := &Experiment{cfg: cfg, sim: s, metrics: reg.DefaultMetrics(fm)}
	for _, m := range e.metrics {
		s.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.sim == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.sim.Run(ctx, e.cfg.Steps())
}

// Simulation returns the underlying simulation for adding observers.
func (e *Experiment) Simulation() *sim.Simulation {
	return e.sim
}

// EnergySeries is the relative energy drift after every observation, or
// nil before the first run.
func (e *Experiment) EnergySeries() []float64 {
	for _, m := range e.metrics {
		if d, ok := m.(*metrics.EnergyDrift); ok {
			return d.Series()
		}
	}
	return nil
}

// Comparison is the outcome of one integrator in Compare.
type Comparison struct {
	Kind   integrators.Kind
	Result *sim.Result
	Energy []float64
}

// Compare runs cfg once per kind, concurrently, with identical initial
// conditions and step size.
func Compare(ctx context.Context, cfg *config.Config, reg *Registry, kinds []integrators.Kind) ([]Comparison, error) {
	exps := make([]*Experiment, len(kinds))
	ens := sim.NewEnsemble(len(kinds), func(idx int) (*sim.Simulation, error) {
		c := *cfg
		c.Integrator = string(kinds[idx])
		exp, err := New(&c, reg)
		if err != nil {
			return nil, err
		}
		exps[idx] = exp
		return exp.Simulation(), nil
	})

	results, err := ens.Run(ctx, cfg.Steps())
	out := make([]Comparison, len(kinds))
	for i, kind := range kinds {
		out[i] = Comparison{Kind: kind, Result: results[i]}
		if exps[i] != nil {
			out[i].Energy = exps[i].EnergySeries()
		}
	}
	return out, err
}
