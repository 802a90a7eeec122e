package optim

import (
	"context"
	"math"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/sim"
)

// StepChoice is the cheapest admissible setting found by LargestStableStep.
type StepChoice struct {
	Kind  integrators.Kind
	Dt    float64
	Drift float64
	// Cost is force evaluations per simulated second.
	Cost float64
}

// evaluations is the number of force passes each kind makes per step.
func evaluations(k integrators.Kind) float64 {
	switch k {
	case integrators.KindRK4:
		return 4
	default:
		return 1
	}
}

// LargestStableStep searches kinds × dts for the setting with the fewest
// force evaluations per simulated second whose relative energy drift over
// base.Duration stays below tolerance.
func LargestStableStep(ctx context.Context, base *config.Config, reg *experiment.Registry, kinds []integrators.Kind, dts []float64, tolerance float64) (*StepChoice, error) {
	kindIdx := make([]float64, len(kinds))
	for i := range kinds {
		kindIdx[i] = float64(i)
	}

	gs := NewGridSearch([]string{"kind", "dt"}, [][]float64{kindIdx, dts})
	build := func(p map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		cfg.Integrator = string(kinds[int(p["kind"])])
		cfg.Dt = p["dt"]
		return experiment.New(&cfg, reg)
	}
	cost := func(p map[string]float64) float64 {
		return evaluations(kinds[int(p["kind"])]) / p["dt"]
	}
	drifts := make(map[[2]float64]float64)
	objective := func(p map[string]float64, r *sim.Result) float64 {
		drift := r.Metrics["energy_drift"]
		drifts[[2]float64{p["kind"], p["dt"]}] = drift
		if drift > tolerance {
			return math.Inf(1)
		}
		return cost(p)
	}

	params, _, err := gs.Search(ctx, build, objective)
	if err != nil {
		return nil, err
	}
	return &StepChoice{
		Kind:  kinds[int(params["kind"])],
		Dt:    params["dt"],
		Drift: drifts[[2]float64{params["kind"], params["dt"]}],
		Cost:  cost(params),
	}, nil
}
