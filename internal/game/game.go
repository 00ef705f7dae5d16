package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"

	"github.com/iburimskiy/particle-backdrop/internal/config"
	"github.com/iburimskiy/particle-backdrop/internal/loop"
	"github.com/iburimskiy/particle-backdrop/internal/render"
	"github.com/iburimskiy/particle-backdrop/internal/style"
	"github.com/iburimskiy/particle-backdrop/internal/theme"
)

const frameRingSize = 256

// Builder creates the animation loop once the host has its surface and scheduler.
type Builder func(surface render.Surface, sched loop.Scheduler, gate *loop.Gate) *loop.Loop

// Game hosts the backdrop in an ebiten window. Update, Draw and Layout all run
// on ebiten's game goroutine, which is the loop's frame goroutine.
type Game struct {
	cfg    *config.Config
	root   *style.Root
	colors *theme.Source

	surface *screenSurface
	sched   *loop.Deferred
	gate    *loop.Gate
	loop    *loop.Loop
	frames  *frameTap

	outsideW, outsideH int
	started            time.Time

	showStats bool
	lastErr   error
}

func NewGame(cfg *config.Config, root *style.Root, colors *theme.Source, build Builder) *Game {
	g := &Game{
		cfg:    cfg,
		root:   root,
		colors: colors,
		surface: &screenSurface{
			width:     cfg.Window.Width,
			height:    cfg.Window.Height,
			antialias: cfg.Render.Antialias,
		},
		sched:   &loop.Deferred{},
		gate:    loop.NewGate(cfg.Loop.StartVisible),
		frames:  newFrameTap(frameRingSize),
		started: time.Now(),
	}
	g.loop = build(g.surface, g.sched, g.gate)
	return g
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.cfg.Window.Width, g.cfg.Window.Height)
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)
	if g.cfg.Window.TPS > 0 {
		ebiten.SetTPS(g.cfg.Window.TPS)
	}

	g.loop.Start()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (g *Game) Update() error {
	now := time.Now()

	g.gate.Set(g.onScreen())
	g.loop.Poll(now)

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		name := g.root.CycleTheme()
		log.Info().Str("theme", name).Msg("theme switched")
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := g.pickAccent(); err != nil {
			g.lastErr = err
			log.Error().Err(err).Msg("accent picker failed")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.root.SetProperty(g.cfg.Style.Property, "")
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.loop.Reseed()
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		g.showStats = !g.showStats
	}
	return nil
}

// onScreen is the window's stand-in for viewport intersection.
func (g *Game) onScreen() bool {
	if ebiten.IsWindowMinimized() {
		return false
	}
	if g.cfg.Window.PauseUnfocused && !ebiten.IsFocused() {
		return false
	}
	return true
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.bind(screen)
	if !g.sched.Run() {
		// paused: the last frame stays on screen
		return
	}
	g.frames.record(time.Now())

	if g.showStats || g.lastErr != nil {
		g.drawStats(screen)
	}
}

func (g *Game) drawStats(screen *ebiten.Image) {
	status := ""
	if g.showStats {
		status = fmt.Sprintf("TPS %.0f  FPS %.0f  frames %d  particles %d  accent %s  theme %q  up %s",
			ebiten.ActualTPS(),
			g.frames.rate(time.Now(), time.Second),
			g.loop.Frames(),
			len(g.loop.Field()),
			g.colors.Current(),
			g.root.Attribute(style.AttrTheme),
			formatUptime(time.Since(g.started)),
		)
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

// Layout feeds outside size changes into the resize debounce and reports the
// debounced surface size, so the screen image only reallocates once a burst settles.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outsideW || outsideHeight != g.outsideH {
		g.outsideW, g.outsideH = outsideWidth, outsideHeight
		g.loop.Resize(time.Now(), outsideWidth, outsideHeight)
	}
	w, h := g.surface.Size()
	if w <= 0 || h <= 0 {
		return outsideWidth, outsideHeight
	}
	return w, h
}

// pickAccent opens a native color dialog and sets the choice as an inline override.
func (g *Game) pickAccent() error {
	c, err := zenity.SelectColor(
		zenity.Title("Backdrop accent"),
		zenity.Color(g.colors.Current().NRGBA(1)),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	accent := theme.FromColor(c)
	log.Info().Str("accent", accent.String()).Msg("accent picked")
	g.root.SetProperty(g.cfg.Style.Property, accent.String())
	return nil
}
