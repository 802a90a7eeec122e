package metrics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Potential is the pairwise potential energy law of a force model.
type Potential interface {
	Potential(pPos, sPos vecmath.Vec3, pMass, sMass float64) (float64, error)
}

// KineticEnergy is Σ ½·m·|v|².
func KineticEnergy(snaps []dynamo.Snapshot) float64 {
	ke := 0.0
	for _, s := range snaps {
		ke += 0.5 * s.Mass * vecmath.Dot(s.Velocity, s.Velocity)
	}
	return ke
}

// PotentialEnergy sums every unordered pair once. Coincident pairs are
// skipped, matching the zero-distance guard of the integrators.
func PotentialEnergy(snaps []dynamo.Snapshot, pot Potential) float64 {
	pe := 0.0
	for i := range snaps {
		for j := i + 1; j < len(snaps); j++ {
			u, err := pot.Potential(snaps[i].Position, snaps[j].Position, snaps[i].Mass, snaps[j].Mass)
			if err != nil {
				continue
			}
			pe += u
		}
	}
	return pe
}

func TotalEnergy(snaps []dynamo.Snapshot, pot Potential) float64 {
	return KineticEnergy(snaps) + PotentialEnergy(snaps, pot)
}

func Momentum(snaps []dynamo.Snapshot) vecmath.Vec3 {
	var p vecmath.Vec3
	for _, s := range snaps {
		p = p.Add(s.Velocity.Mul(s.Mass))
	}
	return p
}

// AngularMomentum about the origin, Σ r × m·v.
func AngularMomentum(snaps []dynamo.Snapshot) vecmath.Vec3 {
	var l vecmath.Vec3
	for _, s := range snaps {
		l = l.Add(vecmath.Cross(s.Position, s.Velocity.Mul(s.Mass)))
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position and the total mass.
// A collection with no mass has its center at the origin.
func CenterOfMass(snaps []dynamo.Snapshot) (vecmath.Vec3, float64) {
	var sum vecmath.Vec3
	total := 0.0
	for _, s := range snaps {
		sum = sum.Add(s.Position.Mul(s.Mass))
		total += s.Mass
	}
	if total == 0 {
		return vecmath.Zero, 0
	}
	return sum.Mul(1 / total), total
}
