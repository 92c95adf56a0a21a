package core

import (
	"fmt"
	"math"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit colour for a screen cell or a drawn shape.
// The zero value is the terminal's default foreground colour.
type Color uint32

// colorSet marks a Color as carrying an explicit RGB value.
const colorSet = 1 << 24

// Predefined colors for HUD and overlay elements.
var (
	ColorDefault = Color(0)
	ColorWhite   = RGB(255, 255, 255)
	ColorBlack   = RGB(0, 0, 0)
	ColorRed     = RGB(230, 40, 40)
	ColorYellow  = RGB(255, 255, 0)
	ColorGray    = RGB(140, 140, 140)
	ColorMagenta = RGB(0xe6, 0x42, 0xf5)
)

// RGB builds a color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color(colorSet | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// HSL builds a color from a hue in degrees and saturation/lightness in [0, 1].
func HSL(h, s, l float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return RGB(r, g, b)
}

// RandomHue returns a fully saturated color with a random hue.
func RandomHue(rng *rand.Rand) Color {
	return HSL(rng.Float64()*360, 1, 0.5)
}

// RandomVivid returns a bright color where one channel is always at full
// intensity and the others fall in [50, 178).
func RandomVivid(rng *rand.Rand) Color {
	var ch [3]uint8
	for i := range ch {
		ch[i] = uint8(rng.Intn(128) + 50)
	}
	ch[rng.Intn(3)] = 255
	return RGB(ch[0], ch[1], ch[2])
}

// IsDefault reports whether c is the terminal default color.
func (c Color) IsDefault() bool {
	return c&colorSet == 0
}

// RGB returns the 8-bit channels. The default color reports white.
func (c Color) RGB() (r, g, b uint8) {
	if c.IsDefault() {
		return 255, 255, 255
	}
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns the color as "#rrggbb", or "" for the default color.
func (c Color) Hex() string {
	if c.IsDefault() {
		return ""
	}
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Hue returns the hue of the color in degrees.
func (c Color) Hue() float64 {
	r, g, b := c.RGB()
	h, _, _ := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hsl()
	return h
}

// Fade scales the color toward black by alpha in [0, 1].
// Terminals cannot blend, so opacity is approximated by darkening.
func (c Color) Fade(alpha float64) Color {
	if alpha >= 1 {
		return c
	}
	alpha = ClampF(alpha, 0, 1)
	r, g, b := c.RGB()
	return RGB(
		uint8(float64(r)*alpha),
		uint8(float64(g)*alpha),
		uint8(float64(b)*alpha),
	)
}
