package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// OrbitPortrait follows one body's path in the x-y plane, optionally
// relative to another body, and records the times at which it crosses the
// positive x axis heading upward. It implements sim.Observer.
type OrbitPortrait struct {
	Body       int
	RelativeTo int // -1 for absolute coordinates
	Points     []dynamo.Point
	Crossings  []float64

	prev     dynamo.Point
	prevTime float64
	started  bool
}

func NewOrbitPortrait(body, relativeTo int) *OrbitPortrait {
	return &OrbitPortrait{Body: body, RelativeTo: relativeTo}
}

func (p *OrbitPortrait) OnStep(snaps []dynamo.Snapshot, t float64) {
	if p.Body >= len(snaps) {
		return
	}
	pos := snaps[p.Body].Position
	if p.RelativeTo >= 0 && p.RelativeTo < len(snaps) {
		pos = pos.Sub(snaps[p.RelativeTo].Position)
	}
	cur := dynamo.Point{X: pos[0], Y: pos[1]}
	p.Points = append(p.Points, cur)

	// Upward crossing of y = 0 on the positive x side, time interpolated
	// linearly between samples.
	if p.started && p.prev.Y < 0 && cur.Y >= 0 {
		frac := -p.prev.Y / (cur.Y - p.prev.Y)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		x := p.prev.X + frac*(cur.X-p.prev.X)
		if x > 0 {
			p.Crossings = append(p.Crossings, p.prevTime+frac*(t-p.prevTime))
		}
	}

	p.prev = cur
	p.prevTime = t
	p.started = true
}

// Period is the mean interval between recorded crossings.
func (p *OrbitPortrait) Period() (float64, bool) {
	if len(p.Crossings) < 2 {
		return 0, false
	}
	n := len(p.Crossings) - 1
	return (p.Crossings[n] - p.Crossings[0]) / float64(n), true
}

// XSeries returns the x coordinate of every sample, suitable for
// DominantPeriod.
func (p *OrbitPortrait) XSeries() []float64 {
	xs := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		xs[i] = pt.X
	}
	return xs
}

// ASCII renders the path into a width×height grid with the axes drawn
// where they fall inside the view.
func (p *OrbitPortrait) ASCII(width, height int) string {
	return PointsToASCII(p.Points, width, height)
}

func PointsToASCII(points []dynamo.Point, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	// Find bounds
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y

	for _, pt := range points {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, pt := range points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
