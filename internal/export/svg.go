package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot in
// its cell's color.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	header(&sb, width, height)

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := canvas.Colors[row][col]
			if fill == "" {
				fill = "#ffffff"
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", cx, cy, dotRadius, fill)
				}
			}
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteOrbits draws every massive body's trajectory as a path and its
// current position as a disc, in the x-y plane, fitted to width×height.
func WriteOrbits(w io.Writer, snaps []dynamo.Snapshot, width, height int) error {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	extend := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, s := range snaps {
		if s.Mass == 0 {
			continue
		}
		extend(s.Position[0], s.Position[1])
		for _, p := range s.Trajectory {
			extend(p.X, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return fmt.Errorf("no massive bodies to draw: %w", dynamo.ErrInvalidState)
	}

	// Equal scale on both axes so circles stay circles.
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	px := float64(min(width, height)) / span
	toSVG := func(x, y float64) (float64, float64) {
		return float64(width)/2 + (x-cx)*px, float64(height)/2 - (y-cy)*px
	}

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	for _, s := range snaps {
		if s.Mass == 0 {
			continue
		}
		stroke := colorHex(s.Payload.Color)
		if len(s.Trajectory) > 1 {
			fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-opacity=\"0.6\" stroke-width=\"1\" d=\"", stroke)
			for i, p := range s.Trajectory {
				x, y := toSVG(p.X, p.Y)
				if i == 0 {
					fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}
		x, y := toSVG(s.Position[0], s.Position[1])
		r := math.Max(1.5, s.Payload.Radius*1.5)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"><title>%s</title></circle>\n", x, y, r, stroke, s.Name)
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func colorHex(c colorful.Color) string {
	if c == (colorful.Color{}) {
		return "#ffffff"
	}
	return c.Clamped().Hex()
}
