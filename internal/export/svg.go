package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/physics"
	"github.com/san-kum/projectile/internal/viz"
)

type Point struct{ X, Y float64 }

// PointsFromResult extracts the (x, y) path of a recorded flight.
func PointsFromResult(res *dynamo.Result) []Point {
	if res == nil {
		return nil
	}
	pts := make([]Point, 0, len(res.Samples))
	for _, s := range res.Samples {
		if len(s.State) < physics.StateSize {
			continue
		}
		pts = append(pts, Point{X: s.State[physics.IdxX], Y: s.State[physics.IdxY]})
	}
	return pts
}

// TrajectoryToSVG draws the coordinate grid of g, the flight path through
// points and a marker at the final position.
func TrajectoryToSVG(points []Point, g viz.Grid, strokeColor string) string {
	var sb strings.Builder

	w, h := g.Width, g.Height
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, w, h, w, h))

	writeGrid(&sb, g)

	if len(points) >= 2 {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
		for i, p := range points {
			x, y := g.ToScreen(p.X, p.Y)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	if n := len(points); n > 0 {
		x, y := g.ToScreen(points[n-1].X, points[n-1].Y)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="#0000ff"/>
`, x, y))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeGrid(sb *strings.Builder, g viz.Grid) {
	ox, oy := g.Origin()
	right, top := g.Extent()

	sb.WriteString(`<g stroke="#000000" stroke-width="1">` + "\n")
	for _, x := range g.VerticalLines() {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x, oy, x, top))
	}
	for _, y := range g.HorizontalLines() {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, ox, y, right, y))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g font-family="sans-serif" font-size="12" fill="#000000">` + "\n")
	for i, x := range g.VerticalLines() {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%d</text>
`, x-5, oy+20, i))
	}
	for i, y := range g.HorizontalLines() {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%d</text>
`, ox-30, y+5, i))
	}
	sb.WriteString("</g>\n")
}

func WriteTrajectorySVG(w io.Writer, res *dynamo.Result, g viz.Grid) error {
	_, err := io.WriteString(w, TrajectoryToSVG(PointsFromResult(res), g, "#3d5afe"))
	return err
}
