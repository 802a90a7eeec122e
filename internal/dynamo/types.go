package dynamo

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Payload is display data carried alongside a body. Physics never reads it.
type Payload struct {
	Color  colorful.Color
	Radius float64
}

// InitialCondition is one row of an initial-condition catalog, in SI units.
type InitialCondition struct {
	Name     string
	Mass     float64
	Position vecmath.Vec3
	Velocity vecmath.Vec3
	Payload  Payload
}

type Body struct {
	Name       string
	Mass       float64
	Position   vecmath.Vec3
	Velocity   vecmath.Vec3
	Trajectory *Trajectory
	Payload    Payload
}

// NewBody validates a catalog row and builds a body with an empty trajectory.
func NewBody(ic InitialCondition) (*Body, error) {
	if math.IsNaN(ic.Mass) || math.IsInf(ic.Mass, 0) {
		return nil, fmt.Errorf("mass %v: %w", ic.Mass, ErrInvalidState)
	}
	if ic.Mass < 0 {
		return nil, fmt.Errorf("mass %v must be >= 0: %w", ic.Mass, ErrParameterBounds)
	}
	if !vecmath.IsFinite(ic.Position) || !vecmath.IsFinite(ic.Velocity) {
		return nil, fmt.Errorf("initial position/velocity: %w", ErrInvalidState)
	}
	return &Body{
		Name:       ic.Name,
		Mass:       ic.Mass,
		Position:   ic.Position,
		Velocity:   ic.Velocity,
		Trajectory: NewTrajectory(TrajectoryCapacity),
		Payload:    ic.Payload,
	}, nil
}

// Massless reports whether the body is a tracer particle.
func (b *Body) Massless() bool { return b.Mass == 0 }

// Commit writes a completed step's result and records the new position.
func (b *Body) Commit(pos, vel vecmath.Vec3) {
	b.Position = pos
	b.Velocity = vel
	b.Trajectory.Push(Point{X: pos[0], Y: pos[1]})
}

func (b *Body) Snapshot() Snapshot {
	return Snapshot{
		Name:       b.Name,
		Mass:       b.Mass,
		Position:   b.Position,
		Velocity:   b.Velocity,
		Trajectory: b.Trajectory.Points(),
		Payload:    b.Payload,
	}
}

// Snapshot is a read-only copy of a body's observable state.
type Snapshot struct {
	Name       string
	Mass       float64
	Position   vecmath.Vec3
	Velocity   vecmath.Vec3
	Trajectory []Point
	Payload    Payload
}

// ForceModel evaluates the pairwise interaction law. Both methods must only
// be called for pairs at distinct positions unless the model is softened.
type ForceModel interface {
	// Force on p exerted by s.
	Force(pPos, sPos vecmath.Vec3, pMass, sMass float64) (vecmath.Vec3, error)
	// Acceleration of p caused by s; independent of p's mass.
	Acceleration(pPos, sPos vecmath.Vec3, sMass float64) (vecmath.Vec3, error)
}

type Integrator interface {
	Name() string
	// Step advances every body by dt. On error no body is modified.
	Step(bodies []*Body, fm ForceModel, dt float64) error
}

// ValidateStep checks staged results before they are committed.
func ValidateStep(bodies []*Body, pos, vel []vecmath.Vec3) error {
	if len(pos) != len(bodies) || len(vel) != len(bodies) {
		return ErrDimensionMismatch
	}
	for i, b := range bodies {
		if !vecmath.IsFinite(pos[i]) || !vecmath.IsFinite(vel[i]) {
			return &BodyError{Index: i, Name: b.Name, Wrapped: ErrInvalidState}
		}
	}
	return nil
}

// CommitAll applies staged results to every body in order.
func CommitAll(bodies []*Body, pos, vel []vecmath.Vec3) {
	for i, b := range bodies {
		b.Commit(pos[i], vel[i])
	}
}
