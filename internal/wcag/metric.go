package wcag

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Metric is a font metric that is either a known number or "mixed", which is
// what a text layer reports when its runs disagree.
type Metric struct {
	Value float64
	Mixed bool
	// Known is false for metrics that were never set.
	Known bool
}

// Mixed is the metric reported for text whose runs disagree.
var Mixed = Metric{Mixed: true}

// Known returns a metric holding v.
func Known(v float64) Metric {
	return Metric{Value: v, Known: true}
}

// Or returns the metric's value, or def when it is mixed or unknown.
func (m Metric) Or(def float64) float64 {
	if m.Mixed || !m.Known {
		return def
	}
	return m.Value
}

// String returns the value, "mixed" or "unset".
func (m Metric) String() string {
	switch {
	case m.Mixed:
		return "mixed"
	case !m.Known:
		return "unset"
	default:
		return strconv.FormatFloat(m.Value, 'f', -1, 64)
	}
}

// namedWeights maps font style names to their numeric CSS weights.
var namedWeights = map[string]float64{
	"thin":       100,
	"hairline":   100,
	"extralight": 200,
	"ultralight": 200,
	"light":      300,
	"regular":    400,
	"normal":     400,
	"book":       400,
	"medium":     500,
	"semibold":   600,
	"demibold":   600,
	"bold":       700,
	"extrabold":  800,
	"ultrabold":  800,
	"black":      900,
	"heavy":      900,
}

// ParseWeight parses a numeric weight, a named weight such as "SemiBold", or "mixed".
// Unrecognised names yield an unknown metric so the default applies.
func ParseWeight(s string) Metric {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)

	if key == "mixed" {
		return Mixed
	}
	if v, err := strconv.ParseFloat(key, 64); err == nil {
		return Known(v)
	}
	if v, ok := namedWeights[key]; ok {
		return Known(v)
	}
	return Metric{}
}

// ParseSize parses a numeric size or "mixed". Weight names are not sizes and
// yield an unknown metric.
func ParseSize(s string) Metric {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimSuffix(key, "px")

	if key == "mixed" {
		return Mixed
	}
	if v, err := strconv.ParseFloat(key, 64); err == nil {
		return Known(v)
	}
	return Metric{}
}

// UnmarshalJSON accepts a number, a numeric or named weight string, "mixed" or null.
func (m *Metric) UnmarshalJSON(data []byte) error {
	return m.decode(data, ParseWeight)
}

// DecodeSize decodes a JSON font size: a number, a numeric string, "mixed" or null.
func DecodeSize(data []byte) (Metric, error) {
	var m Metric
	err := m.decode(data, ParseSize)
	return m, err
}

func (m *Metric) decode(data []byte, parse func(string) Metric) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*m = Known(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("font metric must be a number or string: %w", err)
	}
	*m = parse(s)
	return nil
}

// MarshalJSON writes the number, "mixed", or null.
func (m Metric) MarshalJSON() ([]byte, error) {
	switch {
	case m.Mixed:
		return []byte(`"mixed"`), nil
	case !m.Known:
		return []byte("null"), nil
	default:
		return json.Marshal(m.Value)
	}
}
