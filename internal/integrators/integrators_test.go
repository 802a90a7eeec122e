package integrators

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/vecmath"
)

func buildBodies(t *testing.T, ics []dynamo.InitialCondition) []*dynamo.Body {
	t.Helper()
	bodies := make([]*dynamo.Body, len(ics))
	for i, ic := range ics {
		b, err := dynamo.NewBody(ic)
		if err != nil {
			t.Fatalf("body %d: %v", i, err)
		}
		bodies[i] = b
	}
	return bodies
}

func centerOfMass(bodies []*dynamo.Body) vecmath.Vec3 {
	var sum vecmath.Vec3
	total := 0.0
	for _, b := range bodies {
		sum = sum.Add(b.Position.Mul(b.Mass))
		total += b.Mass
	}
	return sum.Mul(1 / total)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"euler", KindEuler, false},
		{"leapfrog", KindLeapfrog, false},
		{"rk4", KindRK4, false},
		{"", DefaultKind, false},
		{"verlet", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, k := range Kinds() {
		if New(k).Name() != string(k) {
			t.Errorf("New(%s).Name() = %s", k, New(k).Name())
		}
	}
}

func TestIsolatedBody_StraightLine(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			g := NewWithT(t)
			p0, v0 := vecmath.New(1e9, -2e9, 5e8), vecmath.New(1200, 300, -40)
			bodies := buildBodies(t, []dynamo.InitialCondition{{Name: "lonely", Mass: 5.9742e24, Position: p0, Velocity: v0}})

			integ := New(kind)
			dt := 3600.0
			steps := 250
			for i := 0; i < steps; i++ {
				g.Expect(integ.Step(bodies, physics.NewGravity(), dt)).To(Succeed())
			}

			expected := p0.Add(v0.Mul(dt * float64(steps)))
			g.Expect(bodies[0].Velocity).To(Equal(v0))
			for i := 0; i < 3; i++ {
				g.Expect(bodies[0].Position[i]).To(BeNumerically("~", expected[i], 1e-3))
			}
			g.Expect(bodies[0].Trajectory.Len()).To(Equal(steps))
		})
	}
}

func TestDuplicatedBody_ZeroMutualForce(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			g := NewWithT(t)
			p0, v0 := vecmath.New(physics.AU, 0, 0), vecmath.New(0, 1000, 0)
			bodies := buildBodies(t, []dynamo.InitialCondition{
				{Name: "a", Mass: 1e30, Position: p0, Velocity: v0},
				{Name: "a'", Mass: 1e30, Position: p0, Velocity: v0},
			})

			integ := New(kind)
			for i := 0; i < 10; i++ {
				g.Expect(integ.Step(bodies, physics.NewGravity(), 60)).To(Succeed())
			}

			for _, b := range bodies {
				g.Expect(b.Velocity).To(Equal(v0))
				g.Expect(vecmath.IsFinite(b.Position)).To(BeTrue())
			}
			g.Expect(bodies[0].Position).To(Equal(bodies[1].Position))
		})
	}
}

func TestKeplerOrbit_ReturnsToStart(t *testing.T) {
	ics := physics.Kepler()
	sun, earth := ics[0], ics[1]

	// period of the relative orbit from vis-viva
	mu := physics.G * (sun.Mass + earth.Mass)
	r := vecmath.Magnitude(earth.Position.Sub(sun.Position))
	v := vecmath.Magnitude(earth.Velocity.Sub(sun.Velocity))
	a := 1 / (2/r - v*v/mu)
	period := 2 * math.Pi * math.Sqrt(a*a*a/mu)

	const steps = 1920
	dt := period / steps

	tolerances := map[Kind]float64{
		KindRK4:      1e-4 * physics.AU,
		KindLeapfrog: 2e-3 * physics.AU,
		KindEuler:    2e-2 * physics.AU,
	}

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			bodies := buildBodies(t, physics.Kepler())
			integ := New(kind)
			for i := 0; i < steps; i++ {
				if err := integ.Step(bodies, physics.NewGravity(), dt); err != nil {
					t.Fatalf("step %d: %v", i, err)
				}
			}

			miss := vecmath.Magnitude(bodies[1].Position.Sub(earth.Position))
			t.Logf("%s: returned within %.3e AU", kind, miss/physics.AU)
			if miss > tolerances[kind] {
				t.Errorf("%s: earth missed its start by %.3e AU (tolerance %.1e AU)",
					kind, miss/physics.AU, tolerances[kind]/physics.AU)
			}
		})
	}
}

func TestSymmetricFour_CenterOfMassStationary(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			g := NewWithT(t)
			bodies := buildBodies(t, physics.SymmetricFour())
			integ := New(kind)
			dt := physics.Year / (32 * 60)

			for i := 0; i < 2000; i++ {
				g.Expect(integ.Step(bodies, physics.NewGravity(), dt)).To(Succeed())
				if i%250 == 0 {
					com := centerOfMass(bodies)
					g.Expect(vecmath.Magnitude(com)).To(BeNumerically("<", 1e-6*physics.AU), "step %d", i)
				}
			}
			g.Expect(vecmath.Magnitude(centerOfMass(bodies))).To(BeNumerically("<", 1e-6*physics.AU))
		})
	}
}

func TestTrajectory_OldestIsStepTotalMinus499(t *testing.T) {
	g := NewWithT(t)
	bodies := buildBodies(t, physics.Kepler())
	integ := NewRK4()
	dt := physics.Year / (32 * 60)

	const total = 777
	recorded := make([]dynamo.Point, total+1)
	for step := 1; step <= total; step++ {
		g.Expect(integ.Step(bodies, physics.NewGravity(), dt)).To(Succeed())
		recorded[step] = dynamo.Point{X: bodies[1].Position[0], Y: bodies[1].Position[1]}
	}

	traj := bodies[1].Trajectory
	g.Expect(traj.Len()).To(Equal(dynamo.TrajectoryCapacity))
	oldest, ok := traj.Oldest()
	g.Expect(ok).To(BeTrue())
	g.Expect(oldest).To(Equal(recorded[total-499]))
	latest, _ := traj.Latest()
	g.Expect(latest).To(Equal(recorded[total]))
}

func TestLeapfrog_MasslessTracer(t *testing.T) {
	g := NewWithT(t)
	r := physics.AU
	v := physics.CircularVelocity(physics.SunMass, r, physics.G)
	bodies := buildBodies(t, []dynamo.InitialCondition{
		{Name: "sun", Mass: physics.SunMass},
		{Name: "tracer", Mass: 0, Position: vecmath.New(r, 0, 0), Velocity: vecmath.New(0, v, 0)},
	})

	integ := NewLeapfrog()
	dt := physics.Year / 1000
	for i := 0; i < 500; i++ {
		g.Expect(integ.Step(bodies, physics.NewGravity(), dt)).To(Succeed())
	}

	// the tracer pulls on nothing
	g.Expect(bodies[0].Position).To(Equal(vecmath.Zero))
	g.Expect(bodies[0].Velocity).To(Equal(vecmath.Zero))
	g.Expect(vecmath.Magnitude(bodies[1].Position)).To(BeNumerically("~", r, 1e-3*r))
	// half an orbit later the tracer sits on the far side
	g.Expect(bodies[1].Position[0]).To(BeNumerically("<", -0.99*r))
}

type brokenForce struct {
	acc vecmath.Vec3
	err error
}

func (b brokenForce) Force(p, s vecmath.Vec3, pm, sm float64) (vecmath.Vec3, error) {
	return b.acc.Mul(pm), b.err
}

func (b brokenForce) Acceleration(p, s vecmath.Vec3, sm float64) (vecmath.Vec3, error) {
	return b.acc, b.err
}

func TestNonFiniteState_FailsWithoutPartialStep(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			bodies := buildBodies(t, physics.Kepler())
			before := []dynamo.Snapshot{bodies[0].Snapshot(), bodies[1].Snapshot()}

			fm := brokenForce{acc: vecmath.New(math.Inf(1), 0, 0)}
			err := New(kind).Step(bodies, fm, 60)
			if !errors.Is(err, dynamo.ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}

			var be *dynamo.BodyError
			if !errors.As(err, &be) {
				t.Errorf("expected a BodyError, got %T", err)
			}

			for i, b := range bodies {
				if b.Position != before[i].Position || b.Velocity != before[i].Velocity {
					t.Errorf("body %d modified by failed step", i)
				}
				if b.Trajectory.Len() != 0 {
					t.Errorf("body %d trajectory appended by failed step", i)
				}
			}
		})
	}
}

func TestForceModelError_Propagates(t *testing.T) {
	sentinel := errors.New("force model exploded")
	for _, kind := range Kinds() {
		bodies := buildBodies(t, physics.Kepler())
		err := New(kind).Step(bodies, brokenForce{err: sentinel}, 60)
		if !errors.Is(err, sentinel) {
			t.Errorf("%s: expected wrapped force error, got %v", kind, err)
		}
	}
}

func TestEmptySystem(t *testing.T) {
	for _, kind := range Kinds() {
		if err := New(kind).Step(nil, physics.NewGravity(), 1); err != nil {
			t.Errorf("%s: empty step returned %v", kind, err)
		}
	}
}

func TestScratchReuse_AcrossSizes(t *testing.T) {
	for _, kind := range Kinds() {
		integ := New(kind)
		small := buildBodies(t, physics.Kepler())
		large := buildBodies(t, physics.SymmetricFour())

		for _, set := range [][]*dynamo.Body{small, large, small} {
			if err := integ.Step(set, physics.NewGravity(), 60); err != nil {
				t.Fatalf("%s: %v", kind, err)
			}
		}
		if small[1].Trajectory.Len() != 2 || large[0].Trajectory.Len() != 1 {
			t.Errorf("%s: unexpected trajectory lengths", kind)
		}
	}
}
