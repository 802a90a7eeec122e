package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// CircularOrbit is the reference problem for convergence studies: a
// massless tracer on a circular orbit about a central mass at rest. The
// tracer exerts no force, so the central mass never moves and the exact
// solution is known in closed form.
type CircularOrbit struct {
	CentralMass float64
	Radius      float64
	G           float64
}

// DefaultOrbit is a tracer at 1 AU around the sun.
func DefaultOrbit() CircularOrbit {
	return CircularOrbit{CentralMass: physics.SunMass, Radius: physics.AU, G: physics.G}
}

func (o CircularOrbit) omega() float64 {
	return math.Sqrt(o.G * o.CentralMass / (o.Radius * o.Radius * o.Radius))
}

func (o CircularOrbit) Period() float64 {
	return 2 * math.Pi / o.omega()
}

// Exact is the tracer position at time t.
func (o CircularOrbit) Exact(t float64) vecmath.Vec3 {
	sin, cos := math.Sincos(o.omega() * t)
	return vecmath.New(o.Radius*cos, o.Radius*sin, 0)
}

func (o CircularOrbit) Catalog() []dynamo.InitialCondition {
	v := physics.CircularVelocity(o.CentralMass, o.Radius, o.G)
	return []dynamo.InitialCondition{
		{Name: "center", Mass: o.CentralMass},
		{Name: "tracer", Mass: 0, Position: vecmath.New(o.Radius, 0, 0), Velocity: vecmath.New(0, v, 0)},
	}
}

func (o CircularOrbit) build(kind integrators.Kind, steps int, duration float64) (*sim.Simulation, error) {
	if steps <= 0 || duration <= 0 {
		return nil, fmt.Errorf("steps and duration must be positive: %w", dynamo.ErrParameterBounds)
	}
	return sim.New(o.Catalog(),
		sim.WithIntegrator(integrators.New(kind)),
		sim.WithForceModel(physics.Gravity{G: o.G}),
		sim.WithDt(duration/float64(steps)))
}

func (o CircularOrbit) errorOf(res *sim.Result) float64 {
	return vecmath.Magnitude(res.Final[1].Position.Sub(o.Exact(res.Time)))
}

// PositionError integrates for duration in the given number of steps and
// returns the distance between the tracer and its exact position.
func (o CircularOrbit) PositionError(ctx context.Context, kind integrators.Kind, steps int, duration float64) (float64, error) {
	s, err := o.build(kind, steps, duration)
	if err != nil {
		return 0, err
	}
	res, err := s.Run(ctx, steps)
	if err != nil {
		return 0, err
	}
	return o.errorOf(res), nil
}

// ConvergenceRow compares a run with one twice as fine.
type ConvergenceRow struct {
	Kind      integrators.Kind
	Dt        float64
	Error     float64
	HalfError float64
}

// Ratio is err(Δt)/err(Δt/2); about 2^p for a method of order p.
func (r ConvergenceRow) Ratio() float64 {
	if r.HalfError == 0 {
		return math.Inf(1)
	}
	return r.Error / r.HalfError
}

func (r ConvergenceRow) Order() float64 {
	return ObservedOrder(r.Ratio())
}

func ObservedOrder(ratio float64) float64 {
	return math.Log2(ratio)
}

// Study runs every kind at steps[kind] and twice that over duration. All
// runs are independent and execute concurrently.
func (o CircularOrbit) Study(ctx context.Context, kinds []integrators.Kind, steps map[integrators.Kind]int, duration float64) ([]ConvergenceRow, error) {
	ens := sim.NewEnsemble(2*len(kinds), func(idx int) (*sim.Simulation, error) {
		kind := kinds[idx/2]
		return o.build(kind, steps[kind]<<(idx%2), duration)
	})

	results, err := ens.RunFor(ctx, duration)
	if err != nil {
		return nil, err
	}

	rows := make([]ConvergenceRow, len(kinds))
	for i, kind := range kinds {
		rows[i] = ConvergenceRow{
			Kind:      kind,
			Dt:        duration / float64(steps[kind]),
			Error:     o.errorOf(results[2*i]),
			HalfError: o.errorOf(results[2*i+1]),
		}
	}
	return rows, nil
}

// DefaultSteps are coarse step counts per eighth of an orbit at which each
// kind is well inside its asymptotic regime.
func DefaultSteps() map[integrators.Kind]int {
	return map[integrators.Kind]int{
		integrators.KindEuler:    1000,
		integrators.KindLeapfrog: 200,
		integrators.KindRK4:      50,
	}
}
