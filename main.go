package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/iburimskiy/particle-backdrop/internal/config"
	"github.com/iburimskiy/particle-backdrop/internal/game"
	"github.com/iburimskiy/particle-backdrop/internal/loop"
	"github.com/iburimskiy/particle-backdrop/internal/particle"
	"github.com/iburimskiy/particle-backdrop/internal/render"
	"github.com/iburimskiy/particle-backdrop/internal/style"
	"github.com/iburimskiy/particle-backdrop/internal/term"
	"github.com/iburimskiy/particle-backdrop/internal/theme"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("backdrop failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	closeLog := setupLogger(cfg)
	defer closeLog()

	root := style.NewRoot(loadSheet(cfg))
	if cfg.Style.Theme != "" {
		root.SetAttribute(style.AttrTheme, cfg.Style.Theme)
	}

	colors := theme.NewSource(root, cfg.Style.Property)
	colors.OnExternalChange(root)
	log.Info().Str("accent", colors.Resolve().String()).Msg("accent resolved")

	build := builder(cfg, colors)

	switch {
	case cfg.Headless.Enabled:
		return runHeadless(cfg, build)
	case cfg.Term.Enabled:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		host, err := term.New(cfg, root, build)
		if err != nil {
			return err
		}
		defer host.Close()
		return host.Run(ctx)
	default:
		return game.NewGame(cfg, root, colors, build).Run()
	}
}

// builder wires a loop to whatever surface and scheduler the host provides.
func builder(cfg *config.Config, colors *theme.Source) func(render.Surface, loop.Scheduler, *loop.Gate) *loop.Loop {
	var classifier particle.Classifier = particle.UserAgent(cfg.Particles.UserAgent)
	if cfg.Particles.Constrained {
		classifier = particle.Static(true)
	}
	count := particle.CountFor(classifier, particle.Counts{
		Default:     cfg.Particles.Count,
		Constrained: cfg.Particles.ConstrainedCount,
	})

	seed := cfg.Particles.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return func(surface render.Surface, sched loop.Scheduler, gate *loop.Gate) *loop.Loop {
		log.Info().
			Int("particles", count).
			Bool("constrained", classifier.Constrained()).
			Uint64("seed", seed).
			Msg("backdrop initialized")

		return loop.New(loop.Params{
			Surface:   surface,
			Scheduler: sched,
			Gate:      gate,
			Colors:    colors,
			Renderer: render.NewRenderer(render.Options{
				LinkDistance: cfg.Render.LinkDistance,
				LinkAlpha:    cfg.Render.LinkAlpha,
				LineWidth:    cfg.Render.LineWidth,
			}),
			Rand:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
			Count: count,
			Ranges: particle.Ranges{
				MaxSpeed:  cfg.Particles.MaxSpeed,
				MinRadius: cfg.Particles.MinRadius,
				MaxRadius: cfg.Particles.MaxRadius,
				MinAlpha:  cfg.Particles.MinAlpha,
				MaxAlpha:  cfg.Particles.MaxAlpha,
			},
			Debounce: cfg.ResizeDebounce(),
		})
	}
}

func loadSheet(cfg *config.Config) *style.Sheet {
	if cfg.Style.Sheet == "" {
		return style.Default()
	}
	sheet, err := style.LoadSheet(cfg.Style.Sheet)
	if err != nil {
		log.Warn().Err(err).Msg("style sheet unavailable, using built-in palette")
		return style.Default()
	}
	if cfg.Style.Watch {
		sheet.Watch()
	}
	return sheet
}

func runHeadless(cfg *config.Config, build func(render.Surface, loop.Scheduler, *loop.Gate) *loop.Loop) error {
	rec := render.NewRecorder(cfg.Window.Width, cfg.Window.Height)
	sched := &loop.Deferred{}
	l := build(rec, sched, loop.NewGate(true))

	l.Start()
	for i := 0; i < cfg.Headless.Frames; i++ {
		if !sched.Run() {
			break
		}
	}

	log.Info().
		Int("frames", l.Frames()).
		Int("particles", len(rec.Circles)).
		Int("connectors", len(rec.Lines)).
		Msg("headless run finished")
	return nil
}

func setupLogger(cfg *config.Config) func() {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if os.Getenv("DEBUG") == "1" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if !cfg.Term.Enabled || cfg.Headless.Enabled {
		log.Logger = zerolog.New(
			zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"},
		).With().Timestamp().Logger()
		return func() {}
	}

	// Redirect logs to file so they don't draw over the terminal backdrop
	if cfg.Term.LogFile == "" {
		log.Logger = zerolog.Nop()
		return func() {}
	}
	logFile, err := os.OpenFile(cfg.Term.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open log file: %v\n", err)
		log.Logger = zerolog.Nop()
		return func() {}
	}
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()
	return func() { _ = logFile.Close() }
}
