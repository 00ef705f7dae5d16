package style

import (
	"sync"
)

// Attributes that affect the computed accent.
const (
	AttrTheme      = "data-theme"
	AttrStyle      = "style"
	AttrStylesheet = "stylesheet" // pseudo attribute for sheet reloads
)

// Root is the document root: it carries the theme attribute and inline
// property overrides, and computes property values against a Sheet.
type Root struct {
	mu        sync.RWMutex
	sheet     *Sheet
	attrs     map[string]string
	inline    Properties
	observers []func(attr string)
}

// NewRoot binds a root to a sheet. A nil sheet uses Default.
func NewRoot(sheet *Sheet) *Root {
	if sheet == nil {
		sheet = Default()
	}
	r := &Root{
		sheet:  sheet,
		attrs:  map[string]string{},
		inline: Properties{},
	}
	sheet.OnReload(func() { r.notify(AttrStylesheet) })
	return r
}

// Attribute returns the current value of an attribute.
func (r *Root) Attribute(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.attrs[name]
}

// SetAttribute changes an attribute and notifies observers if the value differs.
func (r *Root) SetAttribute(name, value string) {
	r.mu.Lock()
	if r.attrs[name] == value {
		r.mu.Unlock()
		return
	}
	r.attrs[name] = value
	r.mu.Unlock()

	r.notify(name)
}

// SetProperty sets an inline custom property, as the style attribute would.
// An empty value removes the override.
func (r *Root) SetProperty(name, value string) {
	name = normalize(name)

	r.mu.Lock()
	if r.inline[name] == value {
		r.mu.Unlock()
		return
	}
	if value == "" {
		delete(r.inline, name)
	} else {
		r.inline[name] = value
	}
	r.mu.Unlock()

	r.notify(AttrStyle)
}

// PropertyValue computes a custom property: inline override, then the active
// theme, then the root block. Unknown properties yield "".
func (r *Root) PropertyValue(name string) string {
	name = normalize(name)

	r.mu.RLock()
	v, ok := r.inline[name]
	theme := r.attrs[AttrTheme]
	r.mu.RUnlock()
	if ok {
		return v
	}

	v, _ = r.sheet.Lookup(theme, name)
	return v
}

// Observe subscribes to every attribute mutation.
func (r *Root) Observe(fn func(attr string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

// ObserveTheme subscribes to the mutations that can change computed colors.
func (r *Root) ObserveTheme(fn func(attr string)) {
	r.Observe(func(attr string) {
		switch attr {
		case AttrTheme, AttrStyle, AttrStylesheet:
			fn(attr)
		}
	})
}

// CycleTheme advances data-theme through the sheet's themes in sorted order,
// with "no theme" between the last and the first. It returns the new value.
func (r *Root) CycleTheme() string {
	names := r.sheet.Themes()
	current := r.Attribute(AttrTheme)

	next := ""
	if len(names) > 0 {
		next = names[0]
		for i, name := range names {
			if name == current {
				if i+1 < len(names) {
					next = names[i+1]
				} else {
					next = ""
				}
				break
			}
		}
	}

	r.SetAttribute(AttrTheme, next)
	return next
}

func (r *Root) notify(attr string) {
	r.mu.RLock()
	observers := append([]func(string){}, r.observers...)
	r.mu.RUnlock()

	for _, fn := range observers {
		fn(attr)
	}
}
