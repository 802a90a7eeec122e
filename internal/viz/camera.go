package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/vecmath"
)

// Camera maps world coordinates in meters to canvas sub-pixels. It only
// ever reads snapshots; nothing here feeds back into the simulation.
type Camera struct {
	Center vecmath.Vec3
	// Scale is meters per sub-pixel.
	Scale float64
	// Tilt rotates the view about the screen x axis, Spin about world z.
	Tilt, Spin float64
	// Follow is the index of the body kept at the center, or -1.
	Follow int
}

func NewCamera(scale float64) *Camera {
	return &Camera{Scale: scale, Follow: -1}
}

func (c *Camera) ZoomIn()  { c.Scale = math.Max(1, c.Scale/1.25) }
func (c *Camera) ZoomOut() { c.Scale *= 1.25 }

// Pan moves the view by dx, dy sub-pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.Follow = -1
	c.Center = c.Center.Add(c.unrotate(vecmath.New(dx*c.Scale, -dy*c.Scale, 0)))
}

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.Tilt).Mul3(mgl64.Rotate3DZ(c.Spin))
}

func (c *Camera) unrotate(v vecmath.Vec3) vecmath.Vec3 {
	return c.rotation().Transpose().Mul3x1(v)
}

// Track recenters on the followed body, if any.
func (c *Camera) Track(snaps []dynamo.Snapshot) {
	if c.Follow >= 0 && c.Follow < len(snaps) {
		c.Center = snaps[c.Follow].Position
	}
}

// CycleFollow steps through the massive bodies and back to free camera.
func (c *Camera) CycleFollow(snaps []dynamo.Snapshot) {
	for i := c.Follow + 1; i < len(snaps); i++ {
		if snaps[i].Mass > 0 {
			c.Follow = i
			return
		}
	}
	c.Follow = -1
}

// Fit chooses a scale that shows every massive body on a w×h sub-pixel
// canvas, centered on the origin.
func (c *Camera) Fit(snaps []dynamo.Snapshot, w, h int) {
	extent := 0.0
	for _, s := range snaps {
		if s.Mass == 0 {
			continue
		}
		extent = math.Max(extent, vecmath.Magnitude(s.Position))
	}
	if extent == 0 || w <= 0 || h <= 0 {
		return
	}
	c.Center = vecmath.Zero
	c.Scale = 2.2 * extent / float64(min(w, h))
}

// Project returns the sub-pixel position of p on a w×h canvas and whether
// it falls inside.
func (c *Camera) Project(p vecmath.Vec3, w, h int) (int, int, bool) {
	v := c.rotation().Mul3x1(p.Sub(c.Center))
	x := int(math.Round(v[0]/c.Scale)) + w/2
	y := int(math.Round(-v[1]/c.Scale)) + h/2
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}

// ProjectPoint projects a trajectory point, which carries no z.
func (c *Camera) ProjectPoint(pt dynamo.Point, w, h int) (int, int, bool) {
	return c.Project(vecmath.New(pt.X, pt.Y, 0), w, h)
}
