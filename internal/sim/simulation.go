package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
)

// Simulation owns the ordered body collection and advances it one fixed
// step at a time. It is not safe for concurrent use.
type Simulation struct {
	bodies     []*dynamo.Body
	integrator dynamo.Integrator
	force      dynamo.ForceModel
	dt         float64

	t     float64
	steps int
	err   error

	metrics   []Metric
	observers []Observer
}

type Option func(*Simulation)

func WithIntegrator(integ dynamo.Integrator) Option {
	return func(s *Simulation) { s.integrator = integ }
}

func WithForceModel(fm dynamo.ForceModel) Option {
	return func(s *Simulation) { s.force = fm }
}

func WithDt(dt float64) Option {
	return func(s *Simulation) { s.dt = dt }
}

// New ingests the catalog in order. Defaults are RK4, unsoftened gravity
// and a step of one hour.
func New(catalog []dynamo.InitialCondition, opts ...Option) (*Simulation, error) {
	s := &Simulation{
		integrator: integrators.New(integrators.DefaultKind),
		force:      physics.NewGravity(),
		dt:         3600,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.dt <= 0 || math.IsNaN(s.dt) || math.IsInf(s.dt, 0) {
		return nil, fmt.Errorf("dt must be positive and finite, got %g: %w", s.dt, dynamo.ErrParameterBounds)
	}
	if s.integrator == nil || s.force == nil {
		return nil, fmt.Errorf("integrator and force model are required: %w", dynamo.ErrParameterBounds)
	}

	s.bodies = make([]*dynamo.Body, 0, len(catalog))
	for i, ic := range catalog {
		b, err := dynamo.NewBody(ic)
		if err != nil {
			return nil, &dynamo.BodyError{Index: i, Name: ic.Name, Wrapped: err}
		}
		s.bodies = append(s.bodies, b)
	}
	return s, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetIntegrator swaps the strategy used by subsequent steps. Body state is
// kept as is.
func (s *Simulation) SetIntegrator(integ dynamo.Integrator) {
	if integ != nil {
		s.integrator = integ
	}
}

// Step advances every body by exactly one Δt. A failed step leaves the
// bodies untouched and halts the simulation: later calls report
// ErrHalted wrapping the first failure.
func (s *Simulation) Step() error {
	if s.err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrHalted, s.err)
	}

	if err := s.integrator.Step(s.bodies, s.force, s.dt); err != nil {
		s.err = &dynamo.SimulationError{
			Step:       s.steps,
			Time:       s.t,
			Integrator: s.integrator.Name(),
			Wrapped:    err,
		}
		return s.err
	}

	s.steps++
	s.t += s.dt

	if len(s.metrics) > 0 || len(s.observers) > 0 {
		snaps := s.Snapshots()
		for _, m := range s.metrics {
			m.Observe(snaps, s.t)
		}
		for _, obs := range s.observers {
			obs.OnStep(snaps, s.t)
		}
	}
	return nil
}

// Run steps n times, checking ctx between steps only.
func (s *Simulation) Run(ctx context.Context, n int) (*Result, error) {
	if n < 0 {
		return nil, fmt.Errorf("steps must be non-negative, got %d: %w", n, dynamo.ErrParameterBounds)
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.Snapshots(), s.t)
	}

	result := &Result{Metrics: make(map[string]float64)}
	var runErr error
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
			runErr = s.Step()
		}
		if runErr != nil {
			break
		}
		result.StepsTaken++
	}

	result.Time = s.t
	result.Final = s.Snapshots()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, runErr
}

// Snapshots copies every body in catalog order.
func (s *Simulation) Snapshots() []dynamo.Snapshot {
	out := make([]dynamo.Snapshot, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = b.Snapshot()
	}
	return out
}

func (s *Simulation) Len() int               { return len(s.bodies) }
func (s *Simulation) Time() float64          { return s.t }
func (s *Simulation) Steps() int             { return s.steps }
func (s *Simulation) Dt() float64            { return s.dt }
func (s *Simulation) IntegratorName() string { return s.integrator.Name() }
func (s *Simulation) ForceModel() dynamo.ForceModel {
	return s.force
}

// ClearTrails drops every body's recorded trajectory. Positions and the
// clock are untouched.
func (s *Simulation) ClearTrails() {
	for _, b := range s.bodies {
		b.Trajectory.Reset()
	}
}

// Err is the failure that halted the simulation, if any.
func (s *Simulation) Err() error { return s.err }
