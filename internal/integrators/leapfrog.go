package integrators

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Leapfrog is the kick-drift-kick scheme. It evaluates forces twice per
// step: once at the current positions and once at the drifted ones.
// Symplectic, but unsoftened close encounters still produce force spikes.
type Leapfrog struct {
	scratch
	force   []vecmath.Vec3
	halfVel []vecmath.Vec3
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return string(KindLeapfrog) }

func (l *Leapfrog) Step(bodies []*dynamo.Body, fm dynamo.ForceModel, dt float64) error {
	n := len(bodies)
	l.load(bodies)
	l.force = resize(l.force, n)
	l.halfVel = resize(l.halfVel, n)
	halfDt := dt * 0.5

	if err := l.forces(fm); err != nil {
		return err
	}
	for i := range l.pos {
		l.halfVel[i] = l.vel[i].Add(l.kick(i).Mul(halfDt))
	}
	for i := range l.pos {
		l.pos[i] = l.pos[i].Add(l.halfVel[i].Mul(dt))
	}

	if err := l.forces(fm); err != nil {
		return err
	}
	for i := range l.pos {
		l.vel[i] = l.halfVel[i].Add(l.kick(i).Mul(halfDt))
	}

	return l.commit(bodies)
}

// forces resets and re-sums the accumulator for every body at the current
// scratch positions. Massive bodies accumulate force; tracers accumulate
// acceleration directly since force/mass is 0/0 for them.
func (l *Leapfrog) forces(fm dynamo.ForceModel) error {
	for i := range l.pos {
		l.force[i] = vecmath.Zero
		for j := range l.pos {
			if i == j || !separated(l.pos[i], l.pos[j]) {
				continue
			}

			var (
				f   vecmath.Vec3
				err error
			)
			if l.tracer[i] {
				f, err = fm.Acceleration(l.pos[i], l.pos[j], l.mass[j])
			} else {
				f, err = fm.Force(l.pos[i], l.pos[j], l.mass[i], l.mass[j])
			}
			if err != nil {
				return l.bodyError(i, err)
			}
			l.force[i] = l.force[i].Add(f)
		}
	}
	return nil
}

// kick is the acceleration applied in a half kick.
func (l *Leapfrog) kick(i int) vecmath.Vec3 {
	if l.tracer[i] {
		return l.force[i]
	}
	return l.force[i].Mul(1 / l.mass[i])
}
