package integrators

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// RK4 integrates the whole system state Y = [pos₀, vel₀, pos₁, vel₁, …] with
// the classic fourth-order Runge-Kutta formula. Masses ride alongside as
// constants. Four force evaluations per step.
type RK4 struct {
	scratch
	y              []vecmath.Vec3
	k1, k2, k3, k4 []vecmath.Vec3
	tmp            []vecmath.Vec3
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return string(KindRK4) }

func (r *RK4) ensureScratch(n int) {
	if len(r.y) != 2*n {
		r.y = make([]vecmath.Vec3, 2*n)
		r.k1 = make([]vecmath.Vec3, 2*n)
		r.k2 = make([]vecmath.Vec3, 2*n)
		r.k3 = make([]vecmath.Vec3, 2*n)
		r.k4 = make([]vecmath.Vec3, 2*n)
		r.tmp = make([]vecmath.Vec3, 2*n)
	}
}

func (r *RK4) Step(bodies []*dynamo.Body, fm dynamo.ForceModel, dt float64) error {
	n := len(bodies)
	r.load(bodies)
	r.ensureScratch(n)

	for i := 0; i < n; i++ {
		r.y[2*i] = r.pos[i]
		r.y[2*i+1] = r.vel[i]
	}

	if err := r.derive(fm, r.y, r.k1); err != nil {
		return err
	}
	r.offset(r.k1, dt*0.5)
	if err := r.derive(fm, r.tmp, r.k2); err != nil {
		return err
	}
	r.offset(r.k2, dt*0.5)
	if err := r.derive(fm, r.tmp, r.k3); err != nil {
		return err
	}
	r.offset(r.k3, dt)
	if err := r.derive(fm, r.tmp, r.k4); err != nil {
		return err
	}

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		p, v := 2*i, 2*i+1
		r.pos[i] = r.y[p].Add(r.k1[p].Add(r.k2[p].Mul(2)).Add(r.k3[p].Mul(2)).Add(r.k4[p]).Mul(dt6))
		r.vel[i] = r.y[v].Add(r.k1[v].Add(r.k2[v].Mul(2)).Add(r.k3[v].Mul(2)).Add(r.k4[v]).Mul(dt6))
	}

	return r.commit(bodies)
}

// offset stores y + h·k in tmp.
func (r *RK4) offset(k []vecmath.Vec3, h float64) {
	for i := range r.y {
		r.tmp[i] = r.y[i].Add(k[i].Mul(h))
	}
}

// derive evaluates f(Y): for body i, [vel_i, Σ_{j≠i} acc(pos_i, pos_j, m_j)].
// The system is autonomous, so f does not depend on t. Self-pairs are
// skipped by index; coincident distinct bodies are skipped as well.
func (r *RK4) derive(fm dynamo.ForceModel, y, dy []vecmath.Vec3) error {
	n := len(y) / 2
	for i := 0; i < n; i++ {
		pi := y[2*i]
		acc := vecmath.Zero
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			pj := y[2*j]
			if !separated(pi, pj) {
				continue
			}
			a, err := fm.Acceleration(pi, pj, r.mass[j])
			if err != nil {
				return r.bodyError(i, err)
			}
			acc = acc.Add(a)
		}
		dy[2*i] = y[2*i+1]
		dy[2*i+1] = acc
	}
	return nil
}
