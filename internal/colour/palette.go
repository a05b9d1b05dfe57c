// Package colour provides the colour primitives used by the contrast checker:
// 8-bit RGB values with linear alpha, WCAG luminance and contrast, and
// alpha compositing.
package colour

import (
	"fmt"
	"image/color"
	"math"

	"github.com/jmylchreest/contrastcheck/internal/security"
)

// alphaTolerance is the slack allowed when deciding whether an alpha value is opaque.
const alphaTolerance = 1e-6

var (
	// White is the opaque white used as the default background.
	White = RGB{R: 255, G: 255, B: 255, A: 1}

	// Black is opaque black.
	Black = RGB{R: 0, G: 0, B: 0, A: 1}

	// MidGrey stands in for image paints, whose pixels are never sampled.
	MidGrey = RGB{R: 128, G: 128, B: 128, A: 1}
)

// RGB represents a resolved colour as 8-bit sRGB channels plus a linear alpha in [0, 1].
type RGB struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

// Opaque returns a fully opaque colour.
func Opaque(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b, A: 1}
}

// String returns the colour as "rgb(r, g, b)" or "rgba(r, g, b, a)" when translucent.
func (rgb RGB) String() string {
	if rgb.IsOpaque() {
		return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", rgb.R, rgb.G, rgb.B, rgb.A)
}

// Hex returns the colour as a hex string (e.g., "#1a2b3c"). Alpha is not encoded.
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// IsOpaque reports whether alpha is 1 within floating-point tolerance.
func (rgb RGB) IsOpaque() bool {
	return rgb.A >= 1-alphaTolerance
}

// WithAlpha returns a copy of the colour with alpha clamped to [0, 1].
func (rgb RGB) WithAlpha(alpha float64) RGB {
	rgb.A = math.Max(0, math.Min(1, alpha))
	return rgb
}

// ToColor converts the colour to a color.Color, dropping alpha.
func (rgb RGB) ToColor() color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// Normalised is a colour in host space: every channel in [0, 1].
type Normalised struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Validate returns an error if any channel is NaN or infinite.
func (n Normalised) Validate() error {
	channels := [...]struct {
		name  string
		value float64
	}{{"r", n.R}, {"g", n.G}, {"b", n.B}, {"a", n.A}}
	for _, ch := range channels {
		if math.IsNaN(ch.value) || math.IsInf(ch.value, 0) {
			return fmt.Errorf("channel %s is not a finite number", ch.name)
		}
	}
	return nil
}

// RGB scales the channels to 8 bits, rounding and clamping to [0, 255].
// Alpha is carried over, clamped to [0, 1].
func (n Normalised) RGB() RGB {
	return RGB{
		R: scaleChannel(n.R),
		G: scaleChannel(n.G),
		B: scaleChannel(n.B),
		A: math.Max(0, math.Min(1, n.A)),
	}
}

func scaleChannel(v float64) uint8 {
	return security.SafeUint8(int(math.Round(v * 255)))
}
