package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	metrics     map[string]func(metrics.Potential) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		metrics:     make(map[string]func(metrics.Potential) sim.Metric),
	}

	for _, k := range integrators.Kinds() {
		r.integrators[string(k)] = func() dynamo.Integrator { return integrators.New(k) }
	}

	r.metrics["energy"] = func(p metrics.Potential) sim.Metric { return metrics.NewEnergy(p) }
	r.metrics["energy_drift"] = func(p metrics.Potential) sim.Metric { return metrics.NewEnergyDrift(p) }
	r.metrics["com_drift"] = func(metrics.Potential) sim.Metric { return metrics.NewCenterOfMassDrift() }
	r.metrics["momentum_drift"] = func(metrics.Potential) sim.Metric { return metrics.NewMomentumDrift() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetMetric(name string, pot metrics.Potential) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(pot), nil
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

// DefaultMetrics are attached to every experiment.
func (r *Registry) DefaultMetrics(pot metrics.Potential) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergyDrift(pot),
		metrics.NewCenterOfMassDrift(),
		metrics.NewMomentumDrift(),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
