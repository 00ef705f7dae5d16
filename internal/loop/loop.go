package loop

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iburimskiy/particle-backdrop/internal/particle"
	"github.com/iburimskiy/particle-backdrop/internal/render"
	"github.com/iburimskiy/particle-backdrop/internal/theme"
)

// State of the animation loop.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// DefaultDebounce is the quiet period before a resize burst is applied.
const DefaultDebounce = 250 * time.Millisecond

// Scheduler runs a callback on the next display refresh tick.
type Scheduler interface {
	RequestFrame(fn func())
}

// ColorSource yields the accent for the frame about to be drawn.
type ColorSource interface {
	Current() theme.Accent
}

// Resizable surfaces accept settled resize updates.
type Resizable interface {
	Resize(width, height int)
}

// Params wire a loop to its collaborators.
type Params struct {
	Surface   render.Surface // nil leaves the loop inert
	Scheduler Scheduler
	Gate      *Gate
	Colors    ColorSource
	Renderer  *render.Renderer
	Rand      *rand.Rand

	Count    int
	Ranges   particle.Ranges
	Debounce time.Duration
}

// Loop advances and draws the field once per refresh tick while the gate is
// visible. Everything here runs on the host's frame goroutine.
type Loop struct {
	surface  render.Surface
	sched    Scheduler
	gate     *Gate
	colors   ColorSource
	renderer *render.Renderer
	rng      *rand.Rand
	resize   *Debouncer

	count  int
	ranges particle.Ranges
	field  particle.Field

	state  State
	frames int
}

func New(p Params) *Loop {
	if p.Gate == nil {
		p.Gate = NewGate(true)
	}
	if p.Renderer == nil {
		p.Renderer = render.NewRenderer(render.DefaultOptions)
	}
	if p.Debounce <= 0 {
		p.Debounce = DefaultDebounce
	}
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	l := &Loop{
		surface:  p.Surface,
		sched:    p.Scheduler,
		gate:     p.Gate,
		colors:   p.Colors,
		renderer: p.Renderer,
		rng:      p.Rand,
		resize:   NewDebouncer(p.Debounce),
		count:    p.Count,
		ranges:   p.Ranges,
	}

	if l.inert() {
		log.Info().Msg("no drawing surface, backdrop stays inert")
		return l
	}

	l.Reseed()
	l.gate.OnChange(func(visible bool) {
		log.Debug().Bool("visible", visible).Msg("visibility changed")
		if visible {
			l.Start()
		}
	})
	return l
}

func (l *Loop) inert() bool { return l.surface == nil || l.sched == nil }

// Start schedules frames unless already running or off screen.
func (l *Loop) Start() {
	if l.inert() || l.state == Running || !l.gate.Visible() {
		return
	}
	l.state = Running
	l.sched.RequestFrame(l.frame)
}

func (l *Loop) frame() {
	if !l.gate.Visible() {
		l.state = Stopped
		return
	}

	w, h := l.surface.Size()
	particle.Advance(l.field, float64(w), float64(h))
	l.renderer.DrawFrame(l.surface, l.field, l.accent())
	l.frames++

	l.sched.RequestFrame(l.frame)
}

func (l *Loop) accent() theme.Accent {
	if l.colors == nil {
		return theme.Fallback
	}
	return l.colors.Current()
}

// Resize feeds a raw resize signal into the debouncer.
func (l *Loop) Resize(now time.Time, width, height int) {
	l.resize.Signal(now, width, height)
}

// Poll applies a settled resize. Hosts call it on every tick, running or not.
// Existing particles are kept; the next advance wraps any that fall outside.
func (l *Loop) Poll(now time.Time) bool {
	w, h, ok := l.resize.Poll(now)
	if !ok {
		return false
	}
	if r, ok := l.surface.(Resizable); ok {
		r.Resize(w, h)
	}
	log.Debug().Int("width", w).Int("height", h).Msg("surface resized")
	return true
}

// Reseed replaces the whole field using the current surface size.
func (l *Loop) Reseed() {
	if l.surface == nil {
		return
	}
	w, h := l.surface.Size()
	l.field = particle.Initialize(l.rng, float64(w), float64(h), l.count, l.ranges)
}

func (l *Loop) State() State            { return l.state }
func (l *Loop) Frames() int             { return l.frames }
func (l *Loop) Field() particle.Field   { return l.field }
func (l *Loop) Gate() *Gate             { return l.gate }
func (l *Loop) Surface() render.Surface { return l.surface }
