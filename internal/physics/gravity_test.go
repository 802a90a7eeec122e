package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/vecmath"
)

func closeTo(a, b, rel float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= rel*math.Max(math.Abs(a), math.Abs(b))
}

func TestForce_UnitMasses(t *testing.T) {
	g := NewGravity()

	tests := []struct {
		name string
		p, s vecmath.Vec3
		r    float64
		dir  vecmath.Vec3
	}{
		{"along x", vecmath.New(0, 0, 0), vecmath.New(2, 0, 0), 2, vecmath.New(1, 0, 0)},
		{"along -y", vecmath.New(0, 5, 0), vecmath.New(0, 1, 0), 4, vecmath.New(0, -1, 0)},
		{"3-4-5", vecmath.New(1, 1, 0), vecmath.New(4, 5, 0), 5, vecmath.New(0.6, 0.8, 0)},
		{"off plane", vecmath.New(0, 0, 0), vecmath.New(0, 0, 1e3), 1e3, vecmath.New(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := g.Force(tt.p, tt.s, 1, 1)
			if err != nil {
				t.Fatalf("Force returned error: %v", err)
			}

			expected := G / (tt.r * tt.r)
			if !closeTo(vecmath.Magnitude(f), expected, 1e-12) {
				t.Errorf("|F| = %e, want %e", vecmath.Magnitude(f), expected)
			}

			unit, _ := vecmath.UnitVector(f)
			for i := 0; i < 3; i++ {
				if math.Abs(unit[i]-tt.dir[i]) > 1e-12 {
					t.Errorf("direction = %v, want %v", unit, tt.dir)
					break
				}
			}
		})
	}
}

func TestAcceleration_MatchesForceOverMass(t *testing.T) {
	g := NewGravity()
	p, s := vecmath.New(1.496e11, 0, 0), vecmath.New(0, 0, 0)
	pm, sm := 5.9742e24, 1.989e30

	f, err := g.Force(p, s, pm, sm)
	if err != nil {
		t.Fatal(err)
	}
	a, err := g.Acceleration(p, s, sm)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if !closeTo(a[i], f[i]/pm, 1e-12) {
			t.Errorf("a[%d] = %e, F/m = %e", i, a[i], f[i]/pm)
		}
	}
}

func TestAcceleration_MasslessReceiver(t *testing.T) {
	g := NewGravity()
	a, err := g.Acceleration(vecmath.New(1e3, 0, 0), vecmath.Zero, 1e20)
	if err != nil {
		t.Fatal(err)
	}
	if !vecmath.IsFinite(a) || a[0] >= 0 {
		t.Errorf("tracer acceleration = %v, want finite and pointing at the source", a)
	}

	f, _ := g.Force(vecmath.New(1e3, 0, 0), vecmath.Zero, 0, 1e20)
	if f != vecmath.Zero {
		t.Errorf("force on massless body = %v, want zero", f)
	}
}

func TestCoincidentPositions(t *testing.T) {
	g := NewGravity()
	p := vecmath.New(3, 3, 3)

	if _, err := g.Force(p, p, 1, 1); !errors.Is(err, ErrCoincident) {
		t.Errorf("Force: expected ErrCoincident, got %v", err)
	}
	if _, err := g.Acceleration(p, p, 1); !errors.Is(err, ErrCoincident) {
		t.Errorf("Acceleration: expected ErrCoincident, got %v", err)
	}
	if _, err := g.Acceleration(p, p, 1); !errors.Is(err, vecmath.ErrDivideByZero) {
		t.Errorf("ErrCoincident should wrap ErrDivideByZero, got %v", err)
	}
}

func TestSoftening(t *testing.T) {
	g := NewSoftenedGravity(10)
	p := vecmath.New(3, 3, 3)

	a, err := g.Acceleration(p, p, 1e20)
	if err != nil || a != vecmath.Zero {
		t.Errorf("softened coincident acceleration = %v, %v", a, err)
	}

	near, _ := g.Acceleration(vecmath.Zero, vecmath.New(1e-3, 0, 0), 1e20)
	raw, _ := NewGravity().Acceleration(vecmath.Zero, vecmath.New(1e-3, 0, 0), 1e20)
	if vecmath.Magnitude(near) >= vecmath.Magnitude(raw) {
		t.Errorf("softening did not bound acceleration: %e >= %e", vecmath.Magnitude(near), vecmath.Magnitude(raw))
	}

	// far field is unchanged to within (ε/r)²
	far, _ := g.Acceleration(vecmath.Zero, vecmath.New(1e6, 0, 0), 1e20)
	rawFar, _ := NewGravity().Acceleration(vecmath.Zero, vecmath.New(1e6, 0, 0), 1e20)
	if !closeTo(far[0], rawFar[0], 1e-9) {
		t.Errorf("far-field softened = %e, raw = %e", far[0], rawFar[0])
	}
}

func TestPotential(t *testing.T) {
	g := NewGravity()
	u, err := g.Potential(vecmath.Zero, vecmath.New(2, 0, 0), 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !closeTo(u, -G*12/2, 1e-12) {
		t.Errorf("Potential = %e, want %e", u, -G*6)
	}

	if _, err := g.Potential(vecmath.Zero, vecmath.Zero, 1, 1); !errors.Is(err, ErrCoincident) {
		t.Errorf("expected ErrCoincident, got %v", err)
	}
}

func TestCircularVelocity(t *testing.T) {
	v := CircularVelocity(1.989e30, AU, G)
	if math.Abs(v-29780) > 50 {
		t.Errorf("earth circular velocity = %f m/s", v)
	}
	if CircularVelocity(1, 0, G) != 0 {
		t.Error("expected zero velocity for zero radius")
	}
}
