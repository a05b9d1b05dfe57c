// Package wcag classifies contrast ratios against the WCAG 2.x text contrast
// success criteria (1.4.3 AA and 1.4.6 AAA).
package wcag

import (
	"fmt"
	"math"
	"strings"
)

// Defaults applied when a font metric is missing, mixed or invalid.
const (
	DefaultFontSize   = 12.0
	DefaultFontWeight = 400.0
)

// Large text thresholds.
const (
	largeTextSize     = 18.0
	boldLargeTextSize = 14.0
	boldWeight        = 700.0
)

// Policy selects the threshold table used by Classify.
type Policy int

const (
	// PolicyStandard applies WCAG thresholds: large text is relaxed to 3.0 (AA) and 4.5 (AAA).
	PolicyStandard Policy = iota
	// PolicyStrict requires 4.5 (AA) and 7.0 (AAA) regardless of text size.
	PolicyStrict
)

// String returns the policy name as used in configuration.
func (p Policy) String() string {
	switch p {
	case PolicyStandard:
		return "standard"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "standard" or "strict" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return PolicyStandard, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyStandard, fmt.Errorf("unknown contrast policy %q (valid: standard, strict)", s)
	}
}

// Thresholds returns the minimum AA and AAA ratios for text of the given size class.
func (p Policy) Thresholds(largeText bool) (aa, aaa float64) {
	if p == PolicyStandard && largeText {
		return 3.0, 4.5
	}
	return 4.5, 7.0
}

// Verdict is the outcome of classifying one contrast ratio.
type Verdict struct {
	// Ratio is rounded to two decimal places for display.
	Ratio       float64 `json:"ratio"`
	IsLargeText bool    `json:"isLargeText"`
	AA          bool    `json:"aa"`
	AAA         bool    `json:"aaa"`
}

// Classify checks a contrast ratio against the policy's thresholds.
// Invalid inputs are defaulted rather than rejected: a non-finite ratio becomes 0,
// fontSize <= 0 becomes 12 and fontWeight <= 0 becomes 400.
// The unrounded ratio is used for the pass/fail decision.
func Classify(ratio, fontSize, fontWeight float64, policy Policy) Verdict {
	if !finite(ratio) {
		ratio = 0
	}
	fontSize = NormaliseFontSize(fontSize)
	fontWeight = NormaliseFontWeight(fontWeight)

	large := IsLargeText(fontSize, fontWeight)
	aa, aaa := policy.Thresholds(large)

	return Verdict{
		Ratio:       Round2(ratio),
		IsLargeText: large,
		AA:          ratio >= aa,
		AAA:         ratio >= aaa,
	}
}

// NormaliseFontSize replaces a non-positive or non-finite size with DefaultFontSize.
func NormaliseFontSize(size float64) float64 {
	if !finite(size) || size <= 0 {
		return DefaultFontSize
	}
	return size
}

// NormaliseFontWeight replaces a non-positive or non-finite weight with DefaultFontWeight.
func NormaliseFontWeight(weight float64) float64 {
	if !finite(weight) || weight <= 0 {
		return DefaultFontWeight
	}
	return weight
}

// IsLargeText reports whether text qualifies as large: 18pt and up, or 14pt and up when bold.
func IsLargeText(fontSize, fontWeight float64) bool {
	return fontSize >= largeTextSize || (fontSize >= boldLargeTextSize && fontWeight >= boldWeight)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
