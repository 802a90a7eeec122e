package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// CenterOfMassDrift measures how far the center of mass strays from the
// straight line fixed by the initial total momentum. In an isolated system
// it should stay at rounding level. Value is the maximum deviation in
// meters.
type CenterOfMassDrift struct {
	name     string
	origin   vecmath.Vec3
	velocity vecmath.Vec3
	t0       float64
	maxDrift float64
	samples  int
}

func NewCenterOfMassDrift() *CenterOfMassDrift {
	return &CenterOfMassDrift{name: "com_drift"}
}

func (c *CenterOfMassDrift) Name() string { return c.name }

func (c *CenterOfMassDrift) Observe(snaps []dynamo.Snapshot, t float64) {
	com, total := CenterOfMass(snaps)
	if c.samples == 0 {
		c.origin = com
		c.t0 = t
		if total > 0 {
			c.velocity = Momentum(snaps).Mul(1 / total)
		}
	}
	c.samples++

	expected := c.origin.Add(c.velocity.Mul(t - c.t0))
	c.maxDrift = math.Max(c.maxDrift, vecmath.Magnitude(com.Sub(expected)))
}

func (c *CenterOfMassDrift) Value() float64 { return c.maxDrift }

func (c *CenterOfMassDrift) Reset() {
	c.origin = vecmath.Zero
	c.velocity = vecmath.Zero
	c.t0 = 0
	c.maxDrift = 0
	c.samples = 0
}

// MomentumDrift reports the largest change of total momentum relative to
// Σ m·|v| at the first observation.
type MomentumDrift struct {
	name     string
	initial  vecmath.Vec3
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(snaps []dynamo.Snapshot, t float64) {
	p := Momentum(snaps)
	if m.samples == 0 {
		m.initial = p
		m.scale = 0
		for _, s := range snaps {
			m.scale += s.Mass * vecmath.Magnitude(s.Velocity)
		}
	}
	m.samples++

	if m.scale > 0 {
		m.maxDrift = math.Max(m.maxDrift, vecmath.Magnitude(p.Sub(m.initial))/m.scale)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = vecmath.Zero
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
