package models

import (
	"fmt"
	"math"
	"strings"
)

// Color is an opaque 8-bit RGB color used by both scene descriptions.
type Color struct {
	R uint8 `json:"r" msgpack:"r" yaml:"r"`
	G uint8 `json:"g" msgpack:"g" yaml:"g"`
	B uint8 `json:"b" msgpack:"b" yaml:"b"`
}

// Grey is the neutral color of idle pipes and equipment.
var Grey = Color{R: 200, G: 200, B: 200}

// RGB builds a color, clamping each channel to [0,255].
func RGB(r, g, b int) Color {
	return Color{R: clampByte(r), G: clampByte(g), B: clampByte(b)}
}

// ParseHex parses "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	var r, g, b int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB(r, g, b), nil
}

// Hex returns the "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Scale multiplies every channel by f.
func (c Color) Scale(f float64) Color {
	return RGB(int(float64(c.R)*f), int(float64(c.G)*f), int(float64(c.B)*f))
}

// Lighter brightens the color in HSV space. A factor of 150 returns a color
// 50% brighter; overflowing value bleeds into lower saturation.
func (c Color) Lighter(factor int) Color {
	if factor <= 0 {
		return c
	}
	if factor < 100 {
		return c.Darker(10000 / factor)
	}
	h, s, v := c.hsv()
	v = v * float64(factor) / 100
	if v > 255 {
		s -= v - 255
		if s < 0 {
			s = 0
		}
		v = 255
	}
	return fromHSV(h, s, v)
}

// Darker divides the HSV value by factor/100.
func (c Color) Darker(factor int) Color {
	if factor <= 0 {
		return c
	}
	if factor < 100 {
		return c.Lighter(10000 / factor)
	}
	h, s, v := c.hsv()
	return fromHSV(h, s, v*100/float64(factor))
}

// Lerp blends a toward b by t in [0,1].
func Lerp(a, b Color, t float64) Color {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) int {
		return int(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return RGB(mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B))
}

// hsv returns hue in degrees and saturation/value on a 0-255 scale.
func (c Color) hsv() (h, s, v float64) {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	v = hi
	delta := hi - lo
	if hi == 0 || delta == 0 {
		return 0, 0, v
	}
	s = delta / hi * 255
	switch hi {
	case r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func fromHSV(h, s, v float64) Color {
	sat := s / 255
	chroma := v * sat
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - chroma
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	return RGB(int(math.Round(r+m)), int(math.Round(g+m)), int(math.Round(b+m)))
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
