package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/iburimskiy/particle-backdrop/internal/config"
	"github.com/iburimskiy/particle-backdrop/internal/loop"
	"github.com/iburimskiy/particle-backdrop/internal/render"
	"github.com/iburimskiy/particle-backdrop/internal/style"
)

// Builder creates the animation loop once the host has its surface and scheduler.
type Builder func(surface render.Surface, sched loop.Scheduler, gate *loop.Gate) *loop.Loop

// Host renders the backdrop in the terminal. Focus events stand in for
// viewport visibility; resize events go through the loop's debounce.
type Host struct {
	cfg    *config.Config
	screen tcell.Screen
	root   *style.Root

	surface *cellSurface
	sched   *loop.Deferred
	gate    *loop.Gate
	loop    *loop.Loop
}

// New initializes the screen. Callers must Close the host.
func New(cfg *config.Config, root *style.Root, build Builder) (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return newHost(cfg, screen, root, build), nil
}

func newHost(cfg *config.Config, screen tcell.Screen, root *style.Root, build Builder) *Host {
	screen.EnableFocus()
	screen.HideCursor()
	screen.Clear()

	cols, rows := screen.Size()
	h := &Host{
		cfg:     cfg,
		screen:  screen,
		root:    root,
		surface: newCellSurface(screen, cols, rows, cfg.Term.CellWidth, cfg.Term.CellHeight),
		sched:   &loop.Deferred{},
		gate:    loop.NewGate(cfg.Loop.StartVisible),
	}
	h.loop = build(h.surface, h.sched, h.gate)
	return h
}

func (h *Host) Close() {
	h.screen.Fini()
}

func (h *Host) pollEvents(ctx context.Context) <-chan tcell.Event {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}

// Run drives the frame loop until a quit key or ctx cancellation.
func (h *Host) Run(ctx context.Context) error {
	fps := h.cfg.Term.FPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := h.pollEvents(ctx)

	h.loop.Start()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if quit := h.handle(ev, time.Now()); quit {
				return nil
			}
		case now := <-ticker.C:
			h.tick(now)
		}
	}
}

// tick is one display refresh: settle resizes, run the pending frame, flush.
func (h *Host) tick(now time.Time) {
	h.loop.Poll(now)
	if h.sched.Run() {
		h.screen.Show()
	}
}

func (h *Host) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case 't', 'T':
				name := h.root.CycleTheme()
				log.Info().Str("theme", name).Msg("theme switched")
			case 'r', 'R':
				h.loop.Reseed()
			}
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		h.screen.Sync()
		h.loop.Resize(now, int(float64(cols)*h.surface.cellW), int(float64(rows)*h.surface.cellH))
	case *tcell.EventFocus:
		h.gate.Set(ev.Focused)
	}
	return false
}
