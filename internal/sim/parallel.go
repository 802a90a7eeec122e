package sim

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Ensemble runs independent simulations concurrently. Each member is built
// by its own call to build, so no state is shared between goroutines.
type Ensemble struct {
	build   func(idx int) (*Simulation, error)
	numRuns int
}

func NewEnsemble(numRuns int, build func(idx int) (*Simulation, error)) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns}
}

// Run advances every member by steps. The first failure cancels the
// remaining members between steps.
func (e *Ensemble) Run(ctx context.Context, steps int) ([]*Result, error) {
	return e.run(ctx, func(*Simulation) int { return steps })
}

// RunFor advances every member to the same simulated time, whatever its
// step size. Members whose Δt does not divide duration stop at the
// nearest whole step.
func (e *Ensemble) RunFor(ctx context.Context, duration float64) ([]*Result, error) {
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("duration must be finite and non-negative, got %g: %w", duration, dynamo.ErrParameterBounds)
	}
	return e.run(ctx, func(s *Simulation) int {
		return int(math.Round(duration / s.Dt()))
	})
}

func (e *Ensemble) run(ctx context.Context, stepsFor func(*Simulation) int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			s, err := e.build(i)
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			results[i], err = s.Run(ctx, stepsFor(s))
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
