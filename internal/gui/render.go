package gui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/san-kum/projectile/internal/viz"
)

var (
	ColGrid  = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	ColLabel = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	ColPoint = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	ColBg    = color.NRGBA{R: 238, G: 238, B: 238, A: 255}
)

const (
	pointSize = 10
	labelSize = 12
)

// plot is the coordinate system and the moving point, laid out in absolute
// window coordinates.
type plot struct {
	grid   viz.Grid
	bg     *canvas.Rectangle
	lines  []*canvas.Line
	labels []*canvas.Text
	point  *canvas.Circle
	root   *fyne.Container
}

func newPlot(g viz.Grid) *plot {
	p := &plot{grid: g}

	p.bg = canvas.NewRectangle(ColBg)
	p.bg.Resize(fyne.NewSize(float32(g.Width), float32(g.Height)))

	ox, oy := g.Origin()
	right, top := g.Extent()

	for i, x := range g.VerticalLines() {
		p.lines = append(p.lines, newLine(x, oy, x, top))
		p.labels = append(p.labels, newLabel(i, x-5, oy+20))
	}
	for i, y := range g.HorizontalLines() {
		p.lines = append(p.lines, newLine(ox, y, right, y))
		p.labels = append(p.labels, newLabel(i, ox-30, y+5))
	}

	p.point = canvas.NewCircle(ColPoint)
	p.point.Resize(fyne.NewSize(pointSize, pointSize))
	p.point.Move(pointPosition(g, 0, 0))

	objs := []fyne.CanvasObject{p.bg}
	for _, l := range p.lines {
		objs = append(objs, l)
	}
	for _, t := range p.labels {
		objs = append(objs, t)
	}
	objs = append(objs, p.point)
	p.root = container.NewWithoutLayout(objs...)
	p.root.Resize(fyne.NewSize(float32(g.Width), float32(g.Height)))
	return p
}

func newLine(x1, y1, x2, y2 float64) *canvas.Line {
	l := canvas.NewLine(ColGrid)
	l.StrokeWidth = 1
	l.Position1 = fyne.NewPos(float32(x1), float32(y1))
	l.Position2 = fyne.NewPos(float32(x2), float32(y2))
	return l
}

// newLabel places a number with its baseline at (x, y).
func newLabel(n int, x, y float64) *canvas.Text {
	t := canvas.NewText(strconv.Itoa(n), ColLabel)
	t.TextSize = labelSize
	t.Move(fyne.NewPos(float32(x), float32(y)-labelSize))
	return t
}

// pointPosition is the top-left corner of the point marker for world (x, y).
func pointPosition(g viz.Grid, x, y float64) fyne.Position {
	sx, sy := g.ToScreen(x, y)
	return fyne.NewPos(float32(int(sx)), float32(int(sy)))
}

func (p *plot) moveTo(x, y float64) {
	p.point.Move(pointPosition(p.grid, x, y))
	p.point.Refresh()
}
