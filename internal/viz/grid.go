package viz

// Grid maps world metres onto a screen with y pointing down. The origin sits
// Margin units in from the left and bottom edges.
type Grid struct {
	Cols, Rows    int
	Scale         float64
	Margin        float64
	Width, Height float64
}

// WindowGrid is the desktop layout: 800x600 with 60 px per metre.
var WindowGrid = Grid{Cols: 11, Rows: 6, Scale: 60, Margin: 100, Width: 800, Height: 600}

// TerminalGrid fits a 70x20 Braille canvas (140x80 dots).
var TerminalGrid = Grid{Cols: 11, Rows: 6, Scale: 12, Margin: 4, Width: 140, Height: 80}

func (g Grid) Origin() (float64, float64) {
	return g.Margin, g.Height - g.Margin
}

func (g Grid) ToScreen(x, y float64) (float64, float64) {
	ox, oy := g.Origin()
	return ox + x*g.Scale, oy - y*g.Scale
}

// VerticalLines returns the x position of each of the Cols+1 vertical lines.
func (g Grid) VerticalLines() []float64 {
	ox, _ := g.Origin()
	xs := make([]float64, g.Cols+1)
	for i := range xs {
		xs[i] = ox + float64(i)*g.Scale
	}
	return xs
}

// HorizontalLines returns the y position of each of the Rows+1 horizontal lines.
func (g Grid) HorizontalLines() []float64 {
	_, oy := g.Origin()
	ys := make([]float64, g.Rows+1)
	for i := range ys {
		ys[i] = oy - float64(i)*g.Scale
	}
	return ys
}

// Extent is the far corner of the grid in screen units.
func (g Grid) Extent() (right, top float64) {
	return g.ToScreen(float64(g.Cols), float64(g.Rows))
}
