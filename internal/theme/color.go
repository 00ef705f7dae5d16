package theme

import (
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnrecognized is returned for values that are neither #RRGGBB nor rgb(r, g, b).
var ErrUnrecognized = errors.New("unrecognized color format")

// Fallback is the accent in effect before the first successful resolution.
var Fallback = Accent{R: 206, G: 195, B: 182}

var (
	hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	rgbFunc  = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
)

// Accent is the theme color used for every particle and connector.
type Accent struct {
	R, G, B uint8
}

func (a Accent) String() string {
	return fmt.Sprintf("#%02x%02x%02x", a.R, a.G, a.B)
}

// NRGBA returns the accent at the given opacity, clamped to [0,1].
func (a Accent) NRGBA(alpha float64) color.NRGBA {
	return color.NRGBA{R: a.R, G: a.G, B: a.B, A: uint8(clamp01(alpha)*255 + 0.5)}
}

// Colorful converts the accent for blending.
func (a Accent) Colorful() colorful.Color {
	c, _ := colorful.MakeColor(color.NRGBA{R: a.R, G: a.G, B: a.B, A: 255})
	return c
}

// FromColor converts any color, dropping alpha.
func FromColor(c color.Color) Accent {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Accent{R: n.R, G: n.G, B: n.B}
}

// Parse reads a custom property value in hex or functional rgb form.
func Parse(value string) (Accent, error) {
	v := strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(v, "#"):
		if !hexColor.MatchString(v) {
			return Accent{}, fmt.Errorf("%w: %q", ErrUnrecognized, value)
		}
		c, err := colorful.Hex(strings.ToLower(v))
		if err != nil {
			return Accent{}, fmt.Errorf("%w: %q", ErrUnrecognized, value)
		}
		r, g, b := c.RGB255()
		return Accent{R: r, G: g, B: b}, nil
	case strings.HasPrefix(v, "rgb"):
		m := rgbFunc.FindStringSubmatch(v)
		if m == nil {
			return Accent{}, fmt.Errorf("%w: %q", ErrUnrecognized, value)
		}
		var ch [3]uint8
		for i := range ch {
			n, err := strconv.Atoi(m[i+1])
			if err != nil || n > 255 {
				return Accent{}, fmt.Errorf("%w: %q", ErrUnrecognized, value)
			}
			ch[i] = uint8(n)
		}
		return Accent{R: ch[0], G: ch[1], B: ch[2]}, nil
	}
	return Accent{}, fmt.Errorf("%w: %q", ErrUnrecognized, value)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
