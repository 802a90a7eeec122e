package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/vecmath"
)

// G is the Newtonian gravitational constant in m³·kg⁻¹·s⁻².
const G = 6.67430e-11

// ErrCoincident is returned for a pair evaluated at zero separation without
// softening. Integrators guard against it before calling.
var ErrCoincident = fmt.Errorf("physics: coincident bodies: %w", vecmath.ErrDivideByZero)

// Gravity is the pairwise Newtonian force law.
//
// Softening is a minimum-distance floor ε: when positive the law uses
// (r² + ε²)^{3/2} in place of r³, bounding close-encounter accelerations.
// The default is 0, the unsoftened law.
type Gravity struct {
	G         float64
	Softening float64
}

func NewGravity() Gravity {
	return Gravity{G: G}
}

// NewSoftenedGravity returns the Newtonian law with a softening length in meters.
func NewSoftenedGravity(softening float64) Gravity {
	return Gravity{G: G, Softening: softening}
}

// Force returns the force exerted on p by s: G·mp·ms/r² along the unit
// vector from p to s.
func (g Gravity) Force(pPos, sPos vecmath.Vec3, pMass, sMass float64) (vecmath.Vec3, error) {
	r := vecmath.PositionVector(pPos, sPos)
	if g.Softening > 0 {
		return r.Mul(g.G * pMass * sMass * g.inverseCube(r)), nil
	}

	dist := vecmath.Magnitude(r)
	unit, err := vecmath.UnitVector(r)
	if err != nil {
		return vecmath.Zero, ErrCoincident
	}
	return unit.Mul(g.G * pMass * sMass / (dist * dist)), nil
}

// Acceleration returns the acceleration of p caused by s: G·ms/r³·r.
// It never divides by p's mass, so it is the form used for tracers.
func (g Gravity) Acceleration(pPos, sPos vecmath.Vec3, sMass float64) (vecmath.Vec3, error) {
	r := vecmath.PositionVector(pPos, sPos)
	if g.Softening == 0 && vecmath.Magnitude(r) == 0 {
		return vecmath.Zero, ErrCoincident
	}
	return r.Mul(g.G * sMass * g.inverseCube(r)), nil
}

// Potential returns the pairwise potential energy -G·mp·ms/r.
func (g Gravity) Potential(pPos, sPos vecmath.Vec3, pMass, sMass float64) (float64, error) {
	r := vecmath.Magnitude(vecmath.PositionVector(pPos, sPos))
	if g.Softening == 0 && r == 0 {
		return 0, ErrCoincident
	}
	return -g.G * pMass * sMass / math.Sqrt(r*r+g.Softening*g.Softening), nil
}

func (g Gravity) inverseCube(r vecmath.Vec3) float64 {
	d := math.Sqrt(vecmath.Dot(r, r) + g.Softening*g.Softening)
	return 1 / (d * d * d)
}

// CircularVelocity is the speed of a circular orbit of radius r about a
// central mass, ignoring the orbiting body's own mass.
func CircularVelocity(centralMass, r, g float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(g * centralMass / r)
}
