package dynamo

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/vecmath"
)

func TestNewBody_Validation(t *testing.T) {
	tests := []struct {
		name    string
		ic      InitialCondition
		wantErr error
	}{
		{"massive", InitialCondition{Mass: 1.989e30}, nil},
		{"massless tracer", InitialCondition{Mass: 0}, nil},
		{"negative mass", InitialCondition{Mass: -1}, ErrParameterBounds},
		{"NaN mass", InitialCondition{Mass: math.NaN()}, ErrInvalidState},
		{"Inf position", InitialCondition{Mass: 1, Position: vecmath.New(math.Inf(1), 0, 0)}, ErrInvalidState},
		{"NaN velocity", InitialCondition{Mass: 1, Velocity: vecmath.New(0, math.NaN(), 0)}, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBody(tt.ic)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if b.Trajectory.Len() != 0 || b.Trajectory.Cap() != TrajectoryCapacity {
					t.Errorf("trajectory len=%d cap=%d", b.Trajectory.Len(), b.Trajectory.Cap())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBody_CommitAndSnapshot(t *testing.T) {
	b, err := NewBody(InitialCondition{Name: "earth", Mass: 5.9742e24})
	if err != nil {
		t.Fatal(err)
	}

	b.Commit(vecmath.New(1, 2, 3), vecmath.New(4, 5, 6))

	snap := b.Snapshot()
	if snap.Position != vecmath.New(1, 2, 3) || snap.Velocity != vecmath.New(4, 5, 6) {
		t.Errorf("snapshot state = %v %v", snap.Position, snap.Velocity)
	}
	if len(snap.Trajectory) != 1 || snap.Trajectory[0] != (Point{X: 1, Y: 2}) {
		t.Errorf("snapshot trajectory = %v", snap.Trajectory)
	}

	snap.Trajectory[0].X = 99
	if p, _ := b.Trajectory.Latest(); p.X == 99 {
		t.Error("snapshot shares trajectory storage with body")
	}
}

func TestValidateStep(t *testing.T) {
	a, _ := NewBody(InitialCondition{Name: "a", Mass: 1})
	b, _ := NewBody(InitialCondition{Name: "b", Mass: 1})
	bodies := []*Body{a, b}

	pos := []vecmath.Vec3{vecmath.New(1, 0, 0), vecmath.New(0, 1, 0)}
	vel := []vecmath.Vec3{vecmath.Zero, vecmath.Zero}
	if err := ValidateStep(bodies, pos, vel); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	vel[1] = vecmath.New(math.NaN(), 0, 0)
	err := ValidateStep(bodies, pos, vel)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	var be *BodyError
	if !errors.As(err, &be) || be.Index != 1 || be.Name != "b" {
		t.Errorf("expected BodyError for body 1, got %v", err)
	}

	if err := ValidateStep(bodies, pos[:1], vel); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Time: 1.5, Integrator: "rk4", Wrapped: ErrInvalidState}
	expected := "step 150 (t=1.5000, rk4): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError does not unwrap")
	}
}
