package integrators

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// separated is the zero-distance guard: a pair at identical positions
// (including a body paired with itself) contributes nothing.
func separated(a, b vecmath.Vec3) bool {
	return vecmath.Magnitude(vecmath.PositionVector(a, b)) != 0
}

// scratch holds per-step working copies of body state. Nothing in it is
// meaningful outside a single Step call.
type scratch struct {
	pos, vel []vecmath.Vec3
	mass     []float64
	tracer   []bool
	names    []string
}

func (s *scratch) load(bodies []*dynamo.Body) {
	n := len(bodies)
	if len(s.pos) != n {
		s.pos = make([]vecmath.Vec3, n)
		s.vel = make([]vecmath.Vec3, n)
		s.mass = make([]float64, n)
		s.tracer = make([]bool, n)
		s.names = make([]string, n)
	}
	for i, b := range bodies {
		s.pos[i] = b.Position
		s.vel[i] = b.Velocity
		s.mass[i] = b.Mass
		s.tracer[i] = b.Massless()
		s.names[i] = b.Name
	}
}

func (s *scratch) bodyError(i int, err error) error {
	return &dynamo.BodyError{Index: i, Name: s.names[i], Wrapped: err}
}

// accelerations fills acc with the acceleration of every body due to all
// others, evaluated against one consistent set of positions.
func (s *scratch) accelerations(fm dynamo.ForceModel, pos []vecmath.Vec3, acc []vecmath.Vec3) error {
	for i := range pos {
		acc[i] = vecmath.Zero
		for j := range pos {
			if i == j || !separated(pos[i], pos[j]) {
				continue
			}
			a, err := fm.Acceleration(pos[i], pos[j], s.mass[j])
			if err != nil {
				return s.bodyError(i, err)
			}
			acc[i] = acc[i].Add(a)
		}
	}
	return nil
}

// commit validates staged results and writes them back; bodies are only
// touched once every value is known to be finite.
func (s *scratch) commit(bodies []*dynamo.Body) error {
	if err := dynamo.ValidateStep(bodies, s.pos, s.vel); err != nil {
		return err
	}
	dynamo.CommitAll(bodies, s.pos, s.vel)
	return nil
}

func resize(v []vecmath.Vec3, n int) []vecmath.Vec3 {
	if len(v) != n {
		return make([]vecmath.Vec3, n)
	}
	return v
}
