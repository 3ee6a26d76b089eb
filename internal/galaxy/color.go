package galaxy

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with components in [0, 1].
type Color colorful.Color

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color(c), nil
}

// MustParseHex is ParseHex for compile-time constants.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color(c).Clamped().Hex()
}

func (c Color) String() string {
	return c.Hex()
}

// Lerp interpolates linearly in RGB from c toward to. t is clamped to [0, 1].
func (c Color) Lerp(to Color, t float64) Color {
	t = math.Max(0, math.Min(1, t))
	return Color(colorful.Color(c).BlendRgb(colorful.Color(to), t))
}

// RotateHue returns c with its HSV hue shifted by deg degrees.
func (c Color) RotateHue(deg float64) Color {
	h, s, v := colorful.Color(c).Hsv()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	return Color(colorful.Hsv(h, s, v))
}

// RGB255 returns 8-bit channel values.
func (c Color) RGB255() (r, g, b uint8) {
	return colorful.Color(c).Clamped().RGB255()
}
