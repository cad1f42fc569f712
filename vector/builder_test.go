package vector

import (
	"math"
	"testing"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/layout"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/lch"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/tokens"
)

func sampleTokens(t *testing.T) *tokens.DesignTokenSet {
	t.Helper()
	brand, ok := lch.Parse("#7c3aed")
	if !ok {
		t.Fatal("parse brand color")
	}
	return &tokens.DesignTokenSet{
		Brand:      []tokens.ColorToken{{Hex: brand.Hex, Sample: brand, Area: 5000}},
		Foundation: []tokens.ColorToken{{Hex: "#111827", Area: 90000}},
		Semantic: tokens.SemanticColors{
			Text:       "#111827",
			Background: "#f8fafc",
		},
		Typography: tokens.Typography{Sizes: []float64{14, 16, 24, 48}},
		Spacing:    []float64{8, 16, 24, 32},
	}
}

func sampleFeatures() *layout.FeatureSet {
	return &layout.FeatureSet{
		Density:        0.9,
		Whitespace:     42,
		Padding:        0.85,
		ImageText:      0.4,
		Borders:        0.1,
		Shadows:        3,
		Grouping:       2.5,
		Complexity:     0.8,
		Hierarchy:      0.45,
		WeightContrast: 300,
		Saturation:     35,
		RoleDistinct:   48,
		Rhythm:         0.9,
		Grid:           0.75,
		AboveFold:      0.6,
		ScaleVariance:  1.2,
	}
}

func TestNewBuilder_RejectsBrokenSchema(t *testing.T) {
	broken := &Schema{Version: "v1", Features: []Feature{
		{Name: "a", Strategy: Strategy{Kind: Linear, Min: 1, Max: 0}},
	}}
	if _, err := NewBuilder(broken); err == nil {
		t.Fatal("broken schema must not build")
	}
	if _, err := NewBuilder(V1()); err != nil {
		t.Fatalf("pinned schema: %v", err)
	}
}

func TestBuild_Shape(t *testing.T) {
	b, err := NewBuilder(V1())
	if err != nil {
		t.Fatal(err)
	}
	v := b.Build(sampleTokens(t), sampleFeatures())

	if v.Version != "v1" {
		t.Errorf("version: got %q", v.Version)
	}
	n := b.Schema().N()
	if len(v.Values) != n || len(v.FeatureNames) != n || len(v.Raw) != n {
		t.Fatalf("shape: values %d, names %d, raw %d, want %d", len(v.Values), len(v.FeatureNames), len(v.Raw), n)
	}
	for i, val := range v.Values {
		lo, hi := b.Schema().Features[i].Strategy.Range()
		if val < lo || val > hi {
			t.Errorf("slot %s out of range: %v not in [%v, %v]", v.FeatureNames[i], val, lo, hi)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b, err := NewBuilder(V1())
	if err != nil {
		t.Fatal(err)
	}
	a := b.Build(sampleTokens(t), sampleFeatures())
	c := b.Build(sampleTokens(t), sampleFeatures())
	for i := range a.Values {
		if a.Values[i] != c.Values[i] {
			t.Errorf("slot %d differs: %v vs %v", i, a.Values[i], c.Values[i])
		}
	}
}

func TestBuild_FallbacksOnEmptyCapture(t *testing.T) {
	b, err := NewBuilder(V1())
	if err != nil {
		t.Fatal(err)
	}
	v := b.Build(&tokens.DesignTokenSet{}, nil)

	idx := make(map[string]int, len(v.FeatureNames))
	for i, name := range v.FeatureNames {
		idx[name] = i
	}

	// No brand tier: hue slots fall back to the absolute range midpoint.
	if got := v.Values[idx[SlotBrandHueCos]]; got != 0 {
		t.Errorf("hue cos fallback: got %v", got)
	}
	if !math.IsNaN(v.Raw[idx[SlotBrandHueCos]]) {
		t.Error("fallback slot must carry NaN raw")
	}
	// Unresolved background still yields a defined lightness: white.
	if got := v.Values[idx[SlotBgLightness]]; got != 1 {
		t.Errorf("bg lightness on white page: got %v, want 1", got)
	}
	if got := v.Values[idx[layout.MetricScaleVariance]]; got != 0 {
		t.Errorf("zscore fallback: got %v, want 0", got)
	}
}

func TestBuild_DefaultedLayoutMetricUsesStrategyFallback(t *testing.T) {
	b, err := NewBuilder(V1())
	if err != nil {
		t.Fatal(err)
	}
	feat := sampleFeatures()
	feat.Rhythm = layout.NeutralDefault
	feat.Defaulted = []string{layout.MetricRhythm}

	v := b.Build(sampleTokens(t), feat)
	for i, name := range v.FeatureNames {
		if name != layout.MetricRhythm {
			continue
		}
		if v.Values[i] != 0.5 {
			t.Errorf("defaulted rhythm slot: got %v, want 0.5", v.Values[i])
		}
		if !math.IsNaN(v.Raw[i]) {
			t.Error("defaulted slot must not pretend to have a raw value")
		}
	}
}

func TestBuild_FallbackOverride(t *testing.T) {
	zero := 0.0
	s := &Schema{Version: "vX", Features: []Feature{
		{Name: "a", Strategy: Strategy{Kind: Linear, Min: 0, Max: 1}, Fallback: &zero},
	}}
	b, err := NewBuilder(s)
	if err != nil {
		t.Fatal(err)
	}
	v := b.Build(nil, nil)
	if v.Values[0] != 0 {
		t.Errorf("explicit fallback: got %v, want 0", v.Values[0])
	}
}

func TestTokenMetrics_BrandHue(t *testing.T) {
	tok := sampleTokens(t)
	raw := tokenMetrics(tok)

	h := tok.Brand[0].Sample.H * math.Pi / 180
	if math.Abs(raw[SlotBrandHueCos]-math.Cos(h)) > 1e-12 {
		t.Errorf("hue cos: got %v", raw[SlotBrandHueCos])
	}
	if math.Abs(raw[SlotBrandHueSin]-math.Sin(h)) > 1e-12 {
		t.Errorf("hue sin: got %v", raw[SlotBrandHueSin])
	}
	if raw[SlotBrandChromaPeak] != tok.Brand[0].Sample.C {
		t.Errorf("chroma peak: got %v", raw[SlotBrandChromaPeak])
	}
	if raw[SlotTypoSizeRange] != 34 {
		t.Errorf("size range: got %v, want 34", raw[SlotTypoSizeRange])
	}
}

func TestTierSpread(t *testing.T) {
	single := &tokens.DesignTokenSet{
		Brand: []tokens.ColorToken{{Hex: "#ff0000", Area: 100}},
	}
	if spread, ok := tierSpread(single); !ok || spread != 0 {
		t.Errorf("single tier: got %v (ok=%v), want 0", spread, ok)
	}

	even := &tokens.DesignTokenSet{
		Foundation: []tokens.ColorToken{{Area: 25}},
		Tinted:     []tokens.ColorToken{{Area: 25}},
		Accent:     []tokens.ColorToken{{Area: 25}},
		Brand:      []tokens.ColorToken{{Area: 25}},
	}
	if spread, ok := tierSpread(even); !ok || math.Abs(spread-1) > 1e-12 {
		t.Errorf("even split: got %v (ok=%v), want 1", spread, ok)
	}

	if _, ok := tierSpread(&tokens.DesignTokenSet{}); ok {
		t.Error("empty palette has no spread")
	}
}

func TestFloat32s(t *testing.T) {
	v := &FeatureVector{Values: []float64{0.5, 1, 0.25}}
	got := v.Float32s()
	if len(got) != 3 || got[0] != 0.5 || got[1] != 1 || got[2] != 0.25 {
		t.Errorf("got %v", got)
	}
}
