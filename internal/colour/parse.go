package colour

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Parse parses a colour string into host space.
// Supports formats: #RGB, #RGBA, #RRGGBB, #RRGGBBAA (hash optional) and CSS/SVG colour names.
func Parse(s string) (Normalised, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Normalised{}, fmt.Errorf("empty colour")
	}

	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return Normalised{
			R: float64(named.R) / 255.0,
			G: float64(named.G) / 255.0,
			B: float64(named.B) / 255.0,
			A: float64(named.A) / 255.0,
		}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	alpha := 1.0

	// Split off the alpha component so go-colorful only sees RGB.
	switch len(hex) {
	case 4:
		a, err := strconv.ParseUint(strings.Repeat(hex[3:], 2), 16, 8)
		if err != nil {
			return Normalised{}, fmt.Errorf("invalid alpha component in %q: %w", s, err)
		}
		alpha = float64(a) / 255.0
		hex = hex[:3]
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return Normalised{}, fmt.Errorf("invalid alpha component in %q: %w", s, err)
		}
		alpha = float64(a) / 255.0
		hex = hex[:6]
	}

	if len(hex) != 3 && len(hex) != 6 {
		return Normalised{}, fmt.Errorf("invalid hex colour length in %q", s)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Normalised{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}

	return Normalised{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// UnmarshalJSON accepts either a colour string (see Parse) or an object
// {"r": 0-1, "g": 0-1, "b": 0-1, "a": 0-1}. A missing "a" means opaque.
func (n *Normalised) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*n = parsed
		return nil
	}

	var obj struct {
		R float64  `json:"r"`
		G float64  `json:"g"`
		B float64  `json:"b"`
		A *float64 `json:"a"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("colour must be a string or an {r,g,b,a} object: %w", err)
	}

	*n = Normalised{R: obj.R, G: obj.G, B: obj.B, A: 1}
	if obj.A != nil {
		n.A = *obj.A
	}
	return nil
}
