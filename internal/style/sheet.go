package style

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Properties maps custom property names (with their leading "--") to textual values.
type Properties map[string]string

// Sheet holds the custom properties of the page: defaults on the root and
// per-theme overrides selected by the data-theme attribute.
//
// A sheet loaded from a file can be watched; reloads swap both maps at once.
type Sheet struct {
	mu       sync.RWMutex
	root     Properties
	themes   map[string]Properties
	v        *viper.Viper
	onReload []func()
}

// Default mirrors the stock site palette.
func Default() *Sheet {
	return NewSheet(
		Properties{"--secondary": "#CECBB6"},
		map[string]Properties{
			"dark":  {"--secondary": "#3A3F4B"},
			"light": {"--secondary": "rgb(206, 195, 182)"},
		},
	)
}

// NewSheet builds an in-memory sheet.
func NewSheet(root Properties, themes map[string]Properties) *Sheet {
	s := &Sheet{root: Properties{}, themes: map[string]Properties{}}
	for k, v := range root {
		s.root[normalize(k)] = v
	}
	for name, props := range themes {
		p := Properties{}
		for k, v := range props {
			p[normalize(k)] = v
		}
		s.themes[strings.ToLower(name)] = p
	}
	return s
}

// LoadSheet reads a YAML sheet:
//
//	root:
//	  --secondary: "#CECBB6"
//	themes:
//	  dark:
//	    --secondary: "rgb(58, 63, 75)"
func LoadSheet(path string) (*Sheet, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", path, err)
	}

	s := &Sheet{v: v}
	if err := s.decode(); err != nil {
		return nil, err
	}
	return s, nil
}

// Watch reloads the sheet when its file changes. Reload listeners run on the
// watcher goroutine.
func (s *Sheet) Watch() {
	if s.v == nil {
		return
	}
	s.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Str("file", e.Name).Str("op", e.Op.String()).Msg("style sheet changed, reloading")
		if err := s.decode(); err != nil {
			log.Error().Err(err).Msg("failed to reload style sheet")
			return
		}
		s.mu.RLock()
		listeners := append([]func(){}, s.onReload...)
		s.mu.RUnlock()
		for _, fn := range listeners {
			fn()
		}
	})
	s.v.WatchConfig()
}

// OnReload registers a callback for successful reloads.
func (s *Sheet) OnReload(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}

func (s *Sheet) decode() error {
	var raw struct {
		Root   map[string]string            `mapstructure:"root"`
		Themes map[string]map[string]string `mapstructure:"themes"`
	}
	if err := s.v.Unmarshal(&raw); err != nil {
		return fmt.Errorf("decode sheet: %w", err)
	}

	fresh := NewSheet(toProps(raw.Root), toThemes(raw.Themes))

	s.mu.Lock()
	s.root = fresh.root
	s.themes = fresh.themes
	s.mu.Unlock()
	return nil
}

// Lookup resolves a property for the given theme, falling back to the root block.
func (s *Sheet) Lookup(theme, name string) (string, bool) {
	name = normalize(name)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.themes[strings.ToLower(theme)]; ok {
		if v, ok := p[name]; ok {
			return v, true
		}
	}
	v, ok := s.root[name]
	return v, ok
}

// Themes returns the theme names in sorted order.
func (s *Sheet) Themes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.themes))
	for name := range s.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// viper lowercases keys and the "--" prefix is easy to drop in YAML, so both
// spellings resolve to the same property.
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return "--" + strings.TrimLeft(name, "-")
}

func toProps(m map[string]string) Properties {
	p := Properties{}
	for k, v := range m {
		p[k] = v
	}
	return p
}

func toThemes(m map[string]map[string]string) map[string]Properties {
	out := make(map[string]Properties, len(m))
	for name, props := range m {
		out[name] = toProps(props)
	}
	return out
}
