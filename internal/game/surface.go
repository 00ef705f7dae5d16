package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-backdrop/internal/render"
)

// screenSurface draws onto the ebiten screen image bound for the current Draw call.
// Its size is the debounced window size, which Layout reports back to ebiten.
type screenSurface struct {
	img       *ebiten.Image
	width     int
	height    int
	antialias bool
}

func (s *screenSurface) bind(img *ebiten.Image) { s.img = img }

func (s *screenSurface) Size() (int, int) { return s.width, s.height }

func (s *screenSurface) Resize(width, height int) {
	s.width, s.height = width, height
}

func (s *screenSurface) Clear() {
	if s.img != nil {
		s.img.Clear()
	}
}

func (s *screenSurface) FillCircle(x, y, radius float64, p render.Paint) {
	if s.img == nil {
		return
	}
	vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(radius), p.Accent.NRGBA(p.Alpha), s.antialias)
}

func (s *screenSurface) StrokeLine(x1, y1, x2, y2, width float64, p render.Paint) {
	if s.img == nil {
		return
	}
	vector.StrokeLine(s.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), p.Accent.NRGBA(p.Alpha), s.antialias)
}
