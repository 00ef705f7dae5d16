package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-backdrop/internal/config"
	"github.com/iburimskiy/particle-backdrop/internal/loop"
	"github.com/iburimskiy/particle-backdrop/internal/particle"
	"github.com/iburimskiy/particle-backdrop/internal/render"
	"github.com/iburimskiy/particle-backdrop/internal/style"
	"github.com/iburimskiy/particle-backdrop/internal/theme"
)

func newSimHost(t *testing.T) (*Host, tcell.SimulationScreen) {
	t.Helper()
	cfg, err := config.Load(nil)
	require.NoError(t, err)

	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(40, 20)
	t.Cleanup(sim.Fini)

	root := style.NewRoot(nil)
	colors := theme.NewSource(root, cfg.Style.Property)
	h := newHost(cfg, sim, root, func(s render.Surface, sched loop.Scheduler, gate *loop.Gate) *loop.Loop {
		return loop.New(loop.Params{
			Surface:   s,
			Scheduler: sched,
			Gate:      gate,
			Colors:    colors,
			Count:     30,
			Ranges:    particle.DefaultRanges,
			Debounce:  cfg.ResizeDebounce(),
		})
	})
	return h, sim
}

func countRune(sim tcell.SimulationScreen, r rune) int {
	cells, w, h := sim.GetContents()
	n := 0
	for i := 0; i < w*h; i++ {
		if len(cells[i].Runes) > 0 && cells[i].Runes[0] == r {
			n++
		}
	}
	return n
}

func TestHostDrawsOnTick(t *testing.T) {
	h, sim := newSimHost(t)
	w, hh := h.surface.Size()
	assert.Equal(t, [2]int{40 * 8, 20 * 16}, [2]int{w, hh})

	h.loop.Start()
	h.tick(time.Now())

	assert.Equal(t, 1, h.loop.Frames())
	assert.Positive(t, countRune(sim, dotRune))
}

func TestHostFocusGatesFrames(t *testing.T) {
	h, _ := newSimHost(t)
	h.loop.Start()
	h.tick(time.Now())

	h.handle(tcell.NewEventFocus(false), time.Now())
	h.tick(time.Now())
	h.tick(time.Now())
	assert.Equal(t, 1, h.loop.Frames())
	assert.Equal(t, loop.Stopped, h.loop.State())

	h.handle(tcell.NewEventFocus(true), time.Now())
	h.tick(time.Now())
	assert.Equal(t, 2, h.loop.Frames())
}

func TestHostResizeIsDebounced(t *testing.T) {
	h, _ := newSimHost(t)
	t0 := time.Now()

	h.handle(tcell.NewEventResize(10, 5), t0)
	h.handle(tcell.NewEventResize(12, 6), t0.Add(20*time.Millisecond))

	h.tick(t0.Add(100 * time.Millisecond))
	w, _ := h.surface.Size()
	assert.Equal(t, 40*8, w)

	h.tick(t0.Add(300 * time.Millisecond))
	w, hh := h.surface.Size()
	assert.Equal(t, [2]int{12 * 8, 6 * 16}, [2]int{w, hh})
}

func TestHostKeys(t *testing.T) {
	h, _ := newSimHost(t)

	assert.False(t, h.handle(tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone), time.Now()))
	assert.Equal(t, "dark", h.root.Attribute(style.AttrTheme))

	assert.True(t, h.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), time.Now()))
	assert.True(t, h.handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), time.Now()))
}

type fakeCanvas struct {
	cells  map[[2]int]rune
	clears int
}

func (f *fakeCanvas) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	f.cells[[2]int{x, y}] = r
}

func (f *fakeCanvas) GetContent(x, y int) (rune, []rune, tcell.Style, int) {
	return f.cells[[2]int{x, y}], nil, tcell.StyleDefault, 1
}

func (f *fakeCanvas) Clear() {
	f.cells = map[[2]int]rune{}
	f.clears++
}

func TestCellSurfaceMapping(t *testing.T) {
	c := &fakeCanvas{cells: map[[2]int]rune{}}
	s := newCellSurface(c, 10, 5, 8, 16)
	p := render.Paint{Accent: theme.Accent{R: 200, G: 100, B: 50}, Alpha: 0.5}

	s.FillCircle(17, 33, 2, p)
	assert.Equal(t, dotRune, c.cells[[2]int{2, 2}])

	// outside the grid is dropped
	s.FillCircle(-1, 0, 2, p)
	s.FillCircle(80, 0, 2, p)
	assert.Len(t, c.cells, 1)

	// connectors do not overwrite dots
	s.StrokeLine(0, 0, 79, 79, 0.5, p)
	assert.Equal(t, dotRune, c.cells[[2]int{2, 2}])
	assert.Equal(t, linkRune, c.cells[[2]int{0, 0}])
	assert.Equal(t, linkRune, c.cells[[2]int{9, 4}])

	s.Clear()
	assert.Equal(t, 1, c.clears)
	assert.Empty(t, c.cells)
}

func TestLineEndpoints(t *testing.T) {
	var got [][2]int
	line(0, 0, 3, 1, func(x, y int) { got = append(got, [2]int{x, y}) })
	require.NotEmpty(t, got)
	assert.Equal(t, [2]int{0, 0}, got[0])
	assert.Equal(t, [2]int{3, 1}, got[len(got)-1])
	assert.Len(t, got, 4)
}

func TestBlend(t *testing.T) {
	bg := colorful.Color{}
	fg := theme.Accent{R: 200, G: 100, B: 50}.Colorful()

	assert.Equal(t, tcell.NewRGBColor(0, 0, 0), blend(bg, 0, fg))
	assert.Equal(t, tcell.NewRGBColor(200, 100, 50), blend(bg, 1, fg))
	assert.Equal(t, tcell.NewRGBColor(200, 100, 50), blend(bg, 7, fg))
	assert.Equal(t, tcell.NewRGBColor(100, 50, 25), blend(bg, 0.5, fg))
}
