package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Divergence records how two runs that differ by a small displacement of
// one body separate over time.
type Divergence struct {
	Initial       float64
	Times         []float64
	LogSeparation []float64
}

// Exponent is the least-squares slope of ln(d(t)/d₀) against t, a
// finite-time estimate of the largest Lyapunov exponent in 1/s. A value
// well above 1/duration indicates chaotic motion.
func (d *Divergence) Exponent() float64 {
	n := float64(len(d.Times))
	if n < 2 {
		return 0
	}

	var st, sy, stt, sty float64
	for i, t := range d.Times {
		y := d.LogSeparation[i]
		st += t
		sy += y
		stt += t * t
		sty += t * y
	}
	den := n*stt - st*st
	if den == 0 {
		return 0
	}
	return (n*sty - st*sy) / den
}

// LyapunovExponent runs the catalog twice under fm, once with body
// displaced by perturbation meters along x, and measures the phase-space
// separation of positions after every step.
func LyapunovExponent(
	ctx context.Context,
	catalog []dynamo.InitialCondition,
	kind integrators.Kind,
	fm dynamo.ForceModel,
	dt float64,
	steps int,
	body int,
	perturbation float64,
) (*Divergence, error) {
	if body < 0 || body >= len(catalog) {
		return nil, fmt.Errorf("body index %d out of range: %w", body, dynamo.ErrParameterBounds)
	}
	if fm == nil {
		return nil, fmt.Errorf("nil force model: %w", dynamo.ErrParameterBounds)
	}
	if perturbation <= 0 {
		return nil, fmt.Errorf("perturbation must be positive: %w", dynamo.ErrParameterBounds)
	}

	perturbed := make([]dynamo.InitialCondition, len(catalog))
	copy(perturbed, catalog)
	perturbed[body].Position = perturbed[body].Position.Add(vecmath.New(perturbation, 0, 0))

	tracks := [2][][]vecmath.Vec3{}
	ens := sim.NewEnsemble(2, func(idx int) (*sim.Simulation, error) {
		ics := catalog
		if idx == 1 {
			ics = perturbed
		}
		s, err := sim.New(ics,
			sim.WithIntegrator(integrators.New(kind)),
			sim.WithForceModel(fm),
			sim.WithDt(dt))
		if err != nil {
			return nil, err
		}
		s.AddObserver(sim.ObserverFunc(func(snaps []dynamo.Snapshot, _ float64) {
			pos := make([]vecmath.Vec3, len(snaps))
			for i, sn := range snaps {
				pos[i] = sn.Position
			}
			tracks[idx] = append(tracks[idx], pos)
		}))
		return s, nil
	})

	if _, err := ens.Run(ctx, steps); err != nil {
		return nil, err
	}

	div := &Divergence{
		Initial:       perturbation,
		Times:         make([]float64, 0, steps),
		LogSeparation: make([]float64, 0, steps),
	}
	for step := range tracks[0] {
		sep := 0.0
		for i := range tracks[0][step] {
			d := tracks[1][step][i].Sub(tracks[0][step][i])
			sep += vecmath.Dot(d, d)
		}
		sep = math.Sqrt(sep)
		if sep == 0 {
			continue
		}
		div.Times = append(div.Times, float64(step+1)*dt)
		div.LogSeparation = append(div.LogSeparation, math.Log(sep/perturbation))
	}
	return div, nil
}
