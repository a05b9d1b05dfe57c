package document

import (
	"github.com/jmylchreest/contrastcheck/internal/colour"
)

// PaintType identifies the kind of a paint layer.
type PaintType string

// Paint types.
const (
	PaintSolid           PaintType = "SOLID"
	PaintGradientLinear  PaintType = "GRADIENT_LINEAR"
	PaintGradientRadial  PaintType = "GRADIENT_RADIAL"
	PaintGradientAngular PaintType = "GRADIENT_ANGULAR"
	PaintGradientDiamond PaintType = "GRADIENT_DIAMOND"
	PaintImage           PaintType = "IMAGE"
	PaintVideo           PaintType = "VIDEO"
)

// IsGradient reports whether the paint type is one of the four gradient kinds.
func (t PaintType) IsGradient() bool {
	switch t {
	case PaintGradientLinear, PaintGradientRadial, PaintGradientAngular, PaintGradientDiamond:
		return true
	default:
		return false
	}
}

// GradientStop is one colour stop of a gradient.
type GradientStop struct {
	Color    colour.Normalised
	Position float64
}

// Paint is one layer of a node's fill stack.
type Paint struct {
	Type    PaintType
	Visible bool
	// Opacity in [0, 1], applied on top of the colour's own alpha.
	Opacity float64
	// Color is set for SOLID paints.
	Color *colour.Normalised
	// GradientStops is set for gradient paints, ordered by position.
	GradientStops []GradientStop
}

// Solid returns a visible, fully opaque SOLID paint.
func Solid(c colour.Normalised) Paint {
	return Paint{Type: PaintSolid, Visible: true, Opacity: 1, Color: &c}
}

// SolidHex returns a SOLID paint for a hex or named colour. It panics on invalid input
// and is intended for fixtures.
func SolidHex(s string) Paint {
	c, err := colour.Parse(s)
	if err != nil {
		panic(err)
	}
	return Solid(c)
}

// Gradient returns a visible, fully opaque gradient paint.
func Gradient(typ PaintType, stops ...GradientStop) Paint {
	return Paint{Type: typ, Visible: true, Opacity: 1, GradientStops: stops}
}

// Image returns a visible, fully opaque IMAGE paint.
func Image() Paint {
	return Paint{Type: PaintImage, Visible: true, Opacity: 1}
}

// WithOpacity returns a copy of the paint with the given opacity.
func (p Paint) WithOpacity(opacity float64) Paint {
	p.Opacity = opacity
	return p
}

// Hidden returns a copy of the paint with Visible set to false.
func (p Paint) Hidden() Paint {
	p.Visible = false
	return p
}
