package colour

import (
	"math"

	"github.com/jmylchreest/contrastcheck/internal/security"
)

// RelativeLuminance calculates the relative luminance of 8-bit sRGB channels according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func RelativeLuminance(r, g, b uint8) float64 {
	rf := gammaCorrect(float64(r) / 255.0)
	gf := gammaCorrect(float64(g) / 255.0)
	bf := gammaCorrect(float64(b) / 255.0)

	return 0.2126*rf + 0.7152*gf + 0.0722*bf
}

// Luminance returns the relative luminance of a colour. Alpha is ignored.
func Luminance(c RGB) float64 {
	return RelativeLuminance(c.R, c.G, c.B)
}

// gammaCorrect converts a normalised sRGB component to linear light.
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the contrast ratio between two colours according to WCAG 2.0.
// Returns a value between 1 and 21, where 21 is maximum contrast (black vs white).
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef.
func ContrastRatio(c1, c2 RGB) float64 {
	l1 := Luminance(c1)
	l2 := Luminance(c2)

	// Ensure l1 is the lighter colour.
	if l1 < l2 {
		l1, l2 = l2, l1
	}

	return (l1 + 0.05) / (l2 + 0.05)
}

// Over composites fg over bg using the fg alpha ("over" blend).
// bg is treated as opaque; the result is always opaque.
func Over(fg, bg RGB) RGB {
	a := math.Max(0, math.Min(1, fg.A))
	blend := func(f, b uint8) uint8 {
		return security.SafeUint8(int(math.Round(float64(f)*a + float64(b)*(1-a))))
	}
	return RGB{
		R: blend(fg.R, bg.R),
		G: blend(fg.G, bg.G),
		B: blend(fg.B, bg.B),
		A: 1,
	}
}

// Flatten composites a translucent colour over opaque white.
// Opaque colours are returned unchanged apart from alpha being pinned to 1.
func Flatten(c RGB) RGB {
	if c.IsOpaque() {
		c.A = 1
		return c
	}
	return Over(c, White)
}

// Effective returns the colour actually seen when fg is painted over bg.
// A translucent bg is first flattened onto white, then fg is composited over it.
func Effective(fg, bg RGB) (text, background RGB) {
	background = Flatten(bg)
	if fg.IsOpaque() {
		fg.A = 1
		return fg, background
	}
	return Over(fg, background), background
}
