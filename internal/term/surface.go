package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-backdrop/internal/render"
)

const (
	dotRune  = '•'
	linkRune = '·'

	// Terminal cells are coarse; connectors at their true opacity would vanish.
	linkGain = 5.0
)

// Canvas is the subset of tcell.Screen the cell surface draws on.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	GetContent(x, y int) (primary rune, combining []rune, style tcell.Style, width int)
	Clear()
}

// cellSurface maps surface units onto terminal cells. The logical size is in
// units (cells times cell size) so particle speeds match the window host.
type cellSurface struct {
	canvas Canvas
	cellW  float64
	cellH  float64
	bg     colorful.Color

	width, height int
}

func newCellSurface(canvas Canvas, cols, rows int, cellW, cellH float64) *cellSurface {
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	s := &cellSurface{
		canvas: canvas,
		cellW:  cellW,
		cellH:  cellH,
		bg:     colorful.Color{R: 0, G: 0, B: 0},
	}
	s.ResizeCells(cols, rows)
	return s
}

func (s *cellSurface) Size() (int, int) { return s.width, s.height }

// Resize takes a size in units.
func (s *cellSurface) Resize(width, height int) {
	s.width, s.height = width, height
}

// ResizeCells takes a size in terminal cells.
func (s *cellSurface) ResizeCells(cols, rows int) {
	s.Resize(int(float64(cols)*s.cellW), int(float64(rows)*s.cellH))
}

func (s *cellSurface) cells() (int, int) {
	return int(float64(s.width) / s.cellW), int(float64(s.height) / s.cellH)
}

func (s *cellSurface) Clear() { s.canvas.Clear() }

func (s *cellSurface) FillCircle(x, y, radius float64, p render.Paint) {
	cx, cy := s.toCell(x, y)
	if !s.inside(cx, cy) {
		return
	}
	s.canvas.SetContent(cx, cy, dotRune, nil, s.style(p, 1))
}

func (s *cellSurface) StrokeLine(x1, y1, x2, y2, width float64, p render.Paint) {
	ax, ay := s.toCell(x1, y1)
	bx, by := s.toCell(x2, y2)
	st := s.style(p, linkGain)

	line(ax, ay, bx, by, func(x, y int) {
		if !s.inside(x, y) {
			return
		}
		if r, _, _, _ := s.canvas.GetContent(x, y); r == dotRune {
			return
		}
		s.canvas.SetContent(x, y, linkRune, nil, st)
	})
}

func (s *cellSurface) toCell(x, y float64) (int, int) {
	return int(math.Floor(x / s.cellW)), int(math.Floor(y / s.cellH))
}

func (s *cellSurface) inside(x, y int) bool {
	cols, rows := s.cells()
	return x >= 0 && y >= 0 && x < cols && y < rows
}

// style blends the accent over the background by the paint's opacity times gain.
func (s *cellSurface) style(p render.Paint, gain float64) tcell.Style {
	return tcell.StyleDefault.Foreground(blend(s.bg, p.Alpha*gain, p.Accent.Colorful()))
}

func blend(bg colorful.Color, alpha float64, fg colorful.Color) tcell.Color {
	c := bg.BlendRgb(fg, math.Max(0, math.Min(1, alpha))).Clamped()
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// line walks the cells between two points (Bresenham).
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
