package integrators

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Euler is the semi-implicit (symplectic) Euler method: velocities are
// kicked with the start-of-step accelerations, then positions drift with
// the new velocities. First order; energy drifts over long runs.
type Euler struct {
	scratch
	acc []vecmath.Vec3
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return string(KindEuler) }

func (e *Euler) Step(bodies []*dynamo.Body, fm dynamo.ForceModel, dt float64) error {
	e.load(bodies)
	e.acc = resize(e.acc, len(bodies))

	if err := e.accelerations(fm, e.pos, e.acc); err != nil {
		return err
	}

	for i := range e.pos {
		e.vel[i] = e.vel[i].Add(e.acc[i].Mul(dt))
		e.pos[i] = e.pos[i].Add(e.vel[i].Mul(dt))
	}

	return e.commit(bodies)
}
