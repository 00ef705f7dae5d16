package theme

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// StyleQuery reads the current textual value of a named custom property.
type StyleQuery interface {
	PropertyValue(name string) string
}

// ChangeNotifier delivers theme-change notifications. Callbacks may run on any goroutine.
type ChangeNotifier interface {
	ObserveTheme(fn func(attr string))
}

// Source resolves the accent color from the style system and keeps the last good value.
//
// Resolve and Current belong to the frame goroutine. Notifications only mark the
// accent stale, so they are safe from watcher goroutines.
type Source struct {
	query    StyleQuery
	property string

	accent  Accent
	stale   atomic.Bool
	skipped atomic.Int64
}

// NewSource starts from the fallback accent. The first Current call resolves.
func NewSource(query StyleQuery, property string) *Source {
	s := &Source{
		query:    query,
		property: property,
		accent:   Fallback,
	}
	s.stale.Store(true)
	return s
}

// Resolve reads the property and updates the accent when the value parses.
// Unrecognized values leave the previous accent in effect.
func (s *Source) Resolve() Accent {
	s.stale.Store(false)
	if s.query == nil {
		return s.accent
	}

	value := s.query.PropertyValue(s.property)
	accent, err := Parse(value)
	if err != nil {
		s.skipped.Add(1)
		log.Warn().Err(err).Str("property", s.property).Str("keep", s.accent.String()).Msg("accent resolution skipped")
		return s.accent
	}

	if accent != s.accent {
		log.Debug().Str("property", s.property).Str("accent", accent.String()).Msg("accent updated")
	}
	s.accent = accent
	return accent
}

// OnExternalChange subscribes to theme changes; each one forces a fresh Resolve.
func (s *Source) OnExternalChange(n ChangeNotifier) {
	n.ObserveTheme(func(attr string) {
		log.Debug().Str("attr", attr).Msg("theme changed")
		s.Invalidate()
	})
}

// Invalidate marks the accent stale.
func (s *Source) Invalidate() { s.stale.Store(true) }

// Current returns the accent, resolving first when a change is pending.
func (s *Source) Current() Accent {
	if s.stale.Load() {
		return s.Resolve()
	}
	return s.accent
}

// Skipped counts resolutions that kept the previous accent.
func (s *Source) Skipped() int64 { return s.skipped.Load() }
