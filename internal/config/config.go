package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	// Particle field
	ParticleCount            = 60
	ConstrainedParticleCount = 30
	MaxSpeed                 = 0.25
	MinRadius                = 1.0
	MaxRadius                = 3.0
	MinAlpha                 = 0.2
	MaxAlpha                 = 0.7

	// Connectors
	LinkDistance = 150.0
	LinkAlpha    = 0.1
	LineWidth    = 0.5

	ResizeDebounce = 250 * time.Millisecond

	StyleProperty = "--secondary"
)

// Config holds everything the backdrop reads at startup.
type Config struct {
	Window    WindowConfig    `mapstructure:"window"`
	Particles ParticlesConfig `mapstructure:"particles"`
	Render    RenderConfig    `mapstructure:"render"`
	Style     StyleConfig     `mapstructure:"style"`
	Loop      LoopConfig      `mapstructure:"loop"`
	Term      TermConfig      `mapstructure:"term"`
	Log       LogConfig       `mapstructure:"log"`
	Headless  HeadlessConfig  `mapstructure:"headless"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
	TPS    int    `mapstructure:"tps"`

	PauseUnfocused bool `mapstructure:"pause_unfocused"`
}

type ParticlesConfig struct {
	Count            int     `mapstructure:"count"`
	ConstrainedCount int     `mapstructure:"constrained_count"`
	Constrained      bool    `mapstructure:"constrained"` // overrides user agent detection when set
	UserAgent        string  `mapstructure:"user_agent"`
	MaxSpeed         float64 `mapstructure:"max_speed"`
	MinRadius        float64 `mapstructure:"min_radius"`
	MaxRadius        float64 `mapstructure:"max_radius"`
	MinAlpha         float64 `mapstructure:"min_alpha"`
	MaxAlpha         float64 `mapstructure:"max_alpha"`
	Seed             uint64  `mapstructure:"seed"` // 0 = random
}

type RenderConfig struct {
	LinkDistance float64 `mapstructure:"link_distance"`
	LinkAlpha    float64 `mapstructure:"link_alpha"` // 0 hides connectors
	LineWidth    float64 `mapstructure:"line_width"`
	Antialias    bool    `mapstructure:"antialias"`
}

type StyleConfig struct {
	Sheet    string `mapstructure:"sheet"` // path to the theme sheet, empty = built-in
	Property string `mapstructure:"property"`
	Theme    string `mapstructure:"theme"`
	Watch    bool   `mapstructure:"watch"`
}

type LoopConfig struct {
	ResizeDebounceMs int  `mapstructure:"resize_debounce_ms"`
	StartVisible     bool `mapstructure:"start_visible"`
}

type TermConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	CellWidth  float64 `mapstructure:"cell_width"`
	CellHeight float64 `mapstructure:"cell_height"`
	FPS        int     `mapstructure:"fps"`
	LogFile    string  `mapstructure:"log_file"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type HeadlessConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Frames  int  `mapstructure:"frames"`
}

// ResizeDebounce returns the trailing debounce applied to resize signals.
func (c *Config) ResizeDebounce() time.Duration {
	if c.Loop.ResizeDebounceMs <= 0 {
		return ResizeDebounce
	}
	return time.Duration(c.Loop.ResizeDebounceMs) * time.Millisecond
}

// Flags declares the command line surface. Names match the viper keys they bind to.
func Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("backdrop", pflag.ContinueOnError)
	flags.String("config", "", "path to a YAML config file")
	flags.Int("window.width", WindowWidth, "window width")
	flags.Int("window.height", WindowHeight, "window height")
	flags.Int("particles.count", ParticleCount, "particle count on capable devices")
	flags.Bool("particles.constrained", false, "treat the device as constrained")
	flags.String("particles.user_agent", "", "user agent used for device classification")
	flags.Uint64("particles.seed", 0, "random seed, 0 picks one")
	flags.String("style.sheet", "", "theme sheet (YAML) with custom properties")
	flags.String("style.theme", "", "initial data-theme value")
	flags.Bool("term.enabled", false, "render in the terminal instead of a window")
	flags.Bool("headless.enabled", false, "render into memory and exit")
	flags.Int("headless.frames", 120, "frames to render in headless mode")
	flags.String("log.level", "info", "log level")
	return flags
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", WindowWidth)
	v.SetDefault("window.height", WindowHeight)
	v.SetDefault("window.title", "Particle Backdrop")
	v.SetDefault("window.tps", 60)
	v.SetDefault("window.pause_unfocused", false)

	v.SetDefault("particles.count", ParticleCount)
	v.SetDefault("particles.constrained_count", ConstrainedParticleCount)
	v.SetDefault("particles.max_speed", MaxSpeed)
	v.SetDefault("particles.min_radius", MinRadius)
	v.SetDefault("particles.max_radius", MaxRadius)
	v.SetDefault("particles.min_alpha", MinAlpha)
	v.SetDefault("particles.max_alpha", MaxAlpha)

	v.SetDefault("render.link_distance", LinkDistance)
	v.SetDefault("render.link_alpha", LinkAlpha)
	v.SetDefault("render.line_width", LineWidth)
	v.SetDefault("render.antialias", true)

	v.SetDefault("style.property", StyleProperty)
	v.SetDefault("style.watch", true)

	v.SetDefault("loop.resize_debounce_ms", int(ResizeDebounce/time.Millisecond))
	v.SetDefault("loop.start_visible", true)

	v.SetDefault("term.cell_width", 8.0)
	v.SetDefault("term.cell_height", 16.0)
	v.SetDefault("term.fps", 30)

	v.SetDefault("headless.frames", 120)
	v.SetDefault("log.level", "info")
}

// Load builds the configuration from defaults, an optional YAML file,
// BACKDROP_* environment variables and the given flags, in rising priority.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BACKDROP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
