package wcag

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLargeText(t *testing.T) {
	tests := []struct {
		size, weight float64
		want         bool
	}{
		{size: 18, weight: 400, want: true},
		{size: 14, weight: 700, want: true},
		{size: 14, weight: 400, want: false},
		{size: 16, weight: 400, want: false},
		{size: 13.9, weight: 900, want: false},
		{size: 24, weight: 100, want: true},
	}

	for _, tt := range tests {
		v := Classify(10, tt.size, tt.weight, PolicyStandard)
		assert.Equal(t, tt.want, v.IsLargeText, "size=%v weight=%v", tt.size, tt.weight)
	}
}

func TestClassifyStandardThresholds(t *testing.T) {
	tests := []struct {
		name    string
		ratio   float64
		size    float64
		wantAA  bool
		wantAAA bool
	}{
		{name: "large at AA boundary", ratio: 3.0, size: 18, wantAA: true, wantAAA: false},
		{name: "large just below AA", ratio: 2.99, size: 18, wantAA: false, wantAAA: false},
		{name: "large at AAA boundary", ratio: 4.5, size: 18, wantAA: true, wantAAA: true},
		{name: "small at AA boundary", ratio: 4.5, size: 12, wantAA: true, wantAAA: false},
		{name: "small just below AA", ratio: 4.49, size: 12, wantAA: false, wantAAA: false},
		{name: "small at AAA boundary", ratio: 7.0, size: 12, wantAA: true, wantAAA: true},
		{name: "maximum", ratio: 21, size: 12, wantAA: true, wantAAA: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.ratio, tt.size, 400, PolicyStandard)
			assert.Equal(t, tt.wantAA, v.AA, "aa")
			assert.Equal(t, tt.wantAAA, v.AAA, "aaa")
		})
	}
}

func TestClassifyStrictIgnoresSize(t *testing.T) {
	v := Classify(3.5, 24, 700, PolicyStrict)
	assert.True(t, v.IsLargeText)
	assert.False(t, v.AA, "strict policy must not relax AA for large text")
	assert.False(t, v.AAA)

	v = Classify(4.5, 24, 700, PolicyStrict)
	assert.True(t, v.AA)
	assert.False(t, v.AAA)

	v = Classify(7, 10, 400, PolicyStrict)
	assert.True(t, v.AAA)
}

func TestClassifyUsesUnroundedRatio(t *testing.T) {
	// 4.496 rounds to 4.5 for display but must still fail AA for small text.
	v := Classify(4.496, 12, 400, PolicyStandard)
	assert.Equal(t, 4.5, v.Ratio)
	assert.False(t, v.AA)
}

func TestClassifyDefaultsInvalidInput(t *testing.T) {
	v := Classify(math.NaN(), 0, -1, PolicyStandard)
	assert.Equal(t, 0.0, v.Ratio)
	assert.False(t, v.AA)
	assert.False(t, v.IsLargeText, "size defaults to 12")

	// A bold weight of NaN falls back to 400, so 14pt is not large.
	v = Classify(5, 14, math.NaN(), PolicyStandard)
	assert.False(t, v.IsLargeText)

	v = Classify(math.Inf(1), 18, 400, PolicyStandard)
	assert.Equal(t, 0.0, v.Ratio)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("Strict")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyStandard, p)

	_, err = ParsePolicy("lenient")
	assert.Error(t, err)

	assert.Equal(t, "strict", PolicyStrict.String())
}

func TestMetric(t *testing.T) {
	assert.Equal(t, 16.0, Known(16).Or(12))
	assert.Equal(t, 12.0, Mixed.Or(12))
	assert.Equal(t, 400.0, Metric{}.Or(400))

	assert.Equal(t, Known(700), ParseWeight("Bold"))
	assert.Equal(t, Known(600), ParseWeight("Semi Bold"))
	assert.Equal(t, Known(800), ParseWeight("extra-bold"))
	assert.Equal(t, Known(550), ParseWeight("550"))
	assert.Equal(t, Mixed, ParseWeight("MIXED"))
	assert.Equal(t, Metric{}, ParseWeight("Condensed Oblique"))
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want Metric
	}{
		{"18", Known(18)},
		{" 14.5px ", Known(14.5)},
		{"Mixed", Mixed},
		{"Bold", Metric{}},
		{"heavy", Metric{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSize(tt.in))
		})
	}
}

func TestDecodeSize(t *testing.T) {
	m, err := DecodeSize([]byte(`"Bold"`))
	require.NoError(t, err)
	assert.Equal(t, Metric{}, m)
	assert.Equal(t, 12.0, m.Or(12))

	m, err = DecodeSize([]byte(`24`))
	require.NoError(t, err)
	assert.Equal(t, Known(24), m)

	m, err = DecodeSize([]byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, Metric{}, m)

	_, err = DecodeSize([]byte(`{"v": 1}`))
	assert.ErrorContains(t, err, "number or string")
}

func TestMetricJSON(t *testing.T) {
	var payload struct {
		Size   Metric `json:"size"`
		Weight Metric `json:"weight"`
		Other  Metric `json:"other"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"size": 16, "weight": "Bold", "other": "mixed"}`), &payload))
	assert.Equal(t, Known(16), payload.Size)
	assert.Equal(t, Known(700), payload.Weight)
	assert.Equal(t, Mixed, payload.Other)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"size": 16, "weight": 700, "other": "mixed"}`, string(out))
}
