// Package resolve determines the colours a reader actually sees for a text
// layer: its own fill for the foreground, and the nearest painted ancestor
// for the background.
package resolve

import (
	"fmt"
	"math"

	"github.com/jmylchreest/contrastcheck/internal/colour"
	"github.com/jmylchreest/contrastcheck/internal/document"
)

// Defaults for Options.
const (
	DefaultMaxDepth          = 10
	DefaultShortCircuitDepth = 2

	// minOpacity is the effective opacity below which a paint is treated as invisible.
	minOpacity = 0.001
)

// Kind classifies where a background colour came from, in priority order.
type Kind int

const (
	KindSolid Kind = iota
	KindGradient
	KindImage
	// KindDefault means no ancestor paint was found and white was assumed.
	KindDefault
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindGradient:
		return "gradient"
	case KindImage:
		return "image"
	case KindDefault:
		return "default"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Background is a resolved background colour and its provenance.
type Background struct {
	Color colour.RGB
	Kind  Kind
	// Source is the ancestor whose paint supplied the colour; nil for KindDefault.
	Source *document.Node
	// Depth is the ancestor distance of Source: 1 for the parent. Zero for KindDefault.
	Depth int
}

// Options tunes the ancestor walk.
type Options struct {
	// MaxDepth bounds how many ancestors are inspected.
	MaxDepth int
	// ShortCircuitDepth is the depth up to which the first solid or gradient paint
	// found is accepted immediately.
	ShortCircuitDepth int
}

// DefaultOptions returns the standard walk bounds.
func DefaultOptions() Options {
	return Options{
		MaxDepth:          DefaultMaxDepth,
		ShortCircuitDepth: DefaultShortCircuitDepth,
	}
}

// Resolver resolves foreground and background colours.
type Resolver struct {
	opts Options
}

// New creates a Resolver. Non-positive MaxDepth falls back to the default.
func New(opts Options) *Resolver {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.ShortCircuitDepth < 0 {
		opts.ShortCircuitDepth = 0
	}
	return &Resolver{opts: opts}
}

// Foreground returns the text colour of n from its own fill stack: the first
// visible solid paint, or the first stop of the first visible gradient.
// Alpha is the paint opacity times the colour's own alpha. ok is false when
// n has no usable fill.
func (r *Resolver) Foreground(n *document.Node) (c colour.RGB, ok bool, err error) {
	for i, p := range n.Fills {
		if !p.Visible {
			continue
		}
		if err := checkOpacity(p); err != nil {
			return colour.RGB{}, false, fmt.Errorf("fill %d: %w", i, err)
		}

		switch {
		case p.Type == document.PaintSolid:
			if p.Color == nil {
				return colour.RGB{}, false, fmt.Errorf("fill %d: solid paint has no colour", i)
			}
			rgb, err := toRGB(*p.Color)
			if err != nil {
				return colour.RGB{}, false, fmt.Errorf("fill %d: %w", i, err)
			}
			return rgb.WithAlpha(p.Opacity * p.Color.A), true, nil

		case p.Type.IsGradient() && len(p.GradientStops) > 0:
			stop := p.GradientStops[0]
			rgb, err := toRGB(stop.Color)
			if err != nil {
				return colour.RGB{}, false, fmt.Errorf("fill %d stop 0: %w", i, err)
			}
			return rgb.WithAlpha(p.Opacity * stop.Color.A), true, nil
		}
	}
	return colour.RGB{}, false, nil
}

// Background walks outward from n's parent and returns the colour behind n.
//
// Each ancestor's fills are read topmost first. A solid or gradient paint
// within ShortCircuitDepth is returned immediately. Otherwise the closest
// solid wins, then the closest gradient, then the closest image. With no
// paint at all the background is opaque white.
func (r *Resolver) Background(n *document.Node) (Background, error) {
	var candidates []Background

	depth := 1
	for anc := n.Parent(); anc != nil && depth <= r.opts.MaxDepth; anc = anc.Parent() {
		if anc.Type.IsRoot() {
			break
		}

		for i := len(anc.Fills) - 1; i >= 0; i-- {
			cand, found, err := candidate(anc.Fills[i])
			if err != nil {
				return Background{}, fmt.Errorf("ancestor %q fill %d: %w", anc.ID, i, err)
			}
			if !found {
				continue
			}

			cand.Source = anc
			cand.Depth = depth
			if cand.Kind != KindImage && depth <= r.opts.ShortCircuitDepth {
				return cand, nil
			}
			candidates = append(candidates, cand)
		}
		depth++
	}

	for _, kind := range []Kind{KindSolid, KindGradient} {
		if best, ok := closest(candidates, func(c Background) bool { return c.Kind == kind }); ok {
			return best, nil
		}
	}
	if best, ok := closest(candidates, func(Background) bool { return true }); ok {
		return best, nil
	}

	return Background{Color: colour.White, Kind: KindDefault}, nil
}

// Effective composites the foreground over the background as seen on screen.
func (r *Resolver) Effective(fg colour.RGB, bg Background) (text, background colour.RGB) {
	return colour.Effective(fg, bg.Color)
}

// candidate turns one ancestor paint into a background candidate.
func candidate(p document.Paint) (Background, bool, error) {
	if !p.Visible {
		return Background{}, false, nil
	}
	if err := checkOpacity(p); err != nil {
		return Background{}, false, err
	}

	switch {
	case p.Type == document.PaintSolid:
		if p.Color == nil {
			return Background{}, false, fmt.Errorf("solid paint has no colour")
		}
		rgb, err := toRGB(*p.Color)
		if err != nil {
			return Background{}, false, err
		}
		alpha := p.Opacity * p.Color.A
		if alpha <= minOpacity {
			return Background{}, false, nil
		}
		return Background{Color: rgb.WithAlpha(alpha), Kind: KindSolid}, true, nil

	case p.Type.IsGradient():
		if len(p.GradientStops) == 0 {
			return Background{}, false, nil
		}
		stop, alpha := mostOpaqueStop(p)
		rgb, err := toRGB(stop.Color)
		if err != nil {
			return Background{}, false, err
		}
		if alpha <= minOpacity {
			return Background{}, false, nil
		}
		return Background{Color: rgb.WithAlpha(alpha), Kind: KindGradient}, true, nil

	case p.Type == document.PaintImage:
		if p.Opacity <= minOpacity {
			return Background{}, false, nil
		}
		return Background{Color: colour.MidGrey, Kind: KindImage}, true, nil
	}

	return Background{}, false, nil
}

// mostOpaqueStop returns the stop maximising paint opacity × stop alpha.
// The first stop wins ties.
func mostOpaqueStop(p document.Paint) (document.GradientStop, float64) {
	best := p.GradientStops[0]
	bestAlpha := p.Opacity * best.Color.A
	for _, s := range p.GradientStops[1:] {
		if a := p.Opacity * s.Color.A; a > bestAlpha {
			best, bestAlpha = s, a
		}
	}
	return best, bestAlpha
}

// closest returns the first matching candidate at the smallest depth.
func closest(candidates []Background, match func(Background) bool) (Background, bool) {
	var best Background
	found := false
	for _, c := range candidates {
		if !match(c) {
			continue
		}
		if !found || c.Depth < best.Depth {
			best, found = c, true
		}
	}
	return best, found
}

func checkOpacity(p document.Paint) error {
	if math.IsNaN(p.Opacity) || math.IsInf(p.Opacity, 0) {
		return fmt.Errorf("%s paint opacity is not a finite number", p.Type)
	}
	return nil
}

func toRGB(n colour.Normalised) (colour.RGB, error) {
	if err := n.Validate(); err != nil {
		return colour.RGB{}, err
	}
	return n.RGB(), nil
}
