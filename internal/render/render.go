package render

import (
	"math"

	"github.com/iburimskiy/particle-backdrop/internal/particle"
	"github.com/iburimskiy/particle-backdrop/internal/theme"
)

// Paint is the accent at a given opacity.
type Paint struct {
	Accent theme.Accent
	Alpha  float64
}

// Surface is a 2D raster sized to the viewport.
type Surface interface {
	Size() (width, height int)
	Clear()
	FillCircle(x, y, radius float64, p Paint)
	StrokeLine(x1, y1, x2, y2, width float64, p Paint)
}

// Connector is the line between two particles closer than the link distance.
type Connector struct {
	Distance float64
	Alpha    float64
}

// Options tune connector drawing.
type Options struct {
	LinkDistance float64
	LinkAlpha    float64 // alpha at distance 0; 0 hides connectors, negative means default
	LineWidth    float64
}

var DefaultOptions = Options{
	LinkDistance: 150,
	LinkAlpha:    0.1,
	LineWidth:    0.5,
}

// Link computes the connector between a and b. It is symmetric in its
// arguments and reports false at or beyond the threshold.
func Link(a, b particle.Particle, threshold, maxAlpha float64) (Connector, bool) {
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	if !(d < threshold) {
		return Connector{}, false
	}
	return Connector{Distance: d, Alpha: maxAlpha * (1 - d/threshold)}, true
}

// Renderer paints one frame of the field.
type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	if opts.LinkDistance <= 0 {
		opts.LinkDistance = DefaultOptions.LinkDistance
	}
	if opts.LinkAlpha < 0 {
		opts.LinkAlpha = DefaultOptions.LinkAlpha
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = DefaultOptions.LineWidth
	}
	return &Renderer{opts: opts}
}

// DrawFrame clears the surface, then draws each particle followed by its
// connectors to every later particle, so each unordered pair is evaluated once.
func (r *Renderer) DrawFrame(s Surface, f particle.Field, accent theme.Accent) {
	s.Clear()

	for i := range f {
		p := f[i]
		s.FillCircle(p.X, p.Y, p.Radius, Paint{Accent: accent, Alpha: p.Alpha})

		if r.opts.LinkAlpha == 0 {
			continue
		}
		for j := i + 1; j < len(f); j++ {
			q := f[j]
			c, ok := Link(p, q, r.opts.LinkDistance, r.opts.LinkAlpha)
			if !ok {
				continue
			}
			s.StrokeLine(p.X, p.Y, q.X, q.Y, r.opts.LineWidth, Paint{Accent: accent, Alpha: c.Alpha})
		}
	}
}
