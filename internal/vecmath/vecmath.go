// Package vecmath holds the 3D vector primitives used by the force model.
// Vectors are mgl64.Vec3 values; planar scenarios keep z at 0.
package vecmath

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrDivideByZero is returned when a direction is requested for a zero vector.
var ErrDivideByZero = errors.New("vecmath: divide by zero (zero-length vector)")

type Vec3 = mgl64.Vec3

// Zero is the origin / null vector.
var Zero = Vec3{}

func New(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Magnitude returns sqrt(x² + y² + z²).
func Magnitude(v Vec3) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// PositionVector returns the vector pointing from `from` to `to`.
func PositionVector(from, to Vec3) Vec3 {
	return to.Sub(from)
}

// UnitVector scales v to length 1. A zero vector has no direction.
func UnitVector(v Vec3) (Vec3, error) {
	m := Magnitude(v)
	if m == 0 {
		return Zero, ErrDivideByZero
	}
	return v.Mul(1 / m), nil
}

func Dot(u, v Vec3) float64 { return u.Dot(v) }

func Cross(u, v Vec3) Vec3 { return u.Cross(v) }

// Angle returns the angle between u and v in degrees.
func Angle(u, v Vec3) (float64, error) {
	mu, mv := Magnitude(u), Magnitude(v)
	if mu == 0 || mv == 0 {
		return 0, ErrDivideByZero
	}
	c := Dot(u, v) / (mu * mv)
	// rounding can push |c| just past 1
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi, nil
}

// IsFinite reports whether every component is neither NaN nor ±Inf.
func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
