package vector

import (
	"math"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/layout"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/lch"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/tokens"
)

// FeatureVector is the versioned fingerprint of one capture. Values
// follows the schema's name order exactly; Raw carries the
// pre-normalization scalars for explainability and is not part of the
// store contract.
type FeatureVector struct {
	Version      string    `json:"version"`
	FeatureNames []string  `json:"featureNames"`
	Values       []float64 `json:"values"`
	Raw          []float64 `json:"raw,omitempty"`
}

// Float32s returns the slot values as float32, the store wire type.
func (v *FeatureVector) Float32s() []float32 {
	out := make([]float32, len(v.Values))
	for i, val := range v.Values {
		out[i] = float32(val)
	}
	return out
}

// Builder assembles FeatureVectors for one frozen schema revision.
type Builder struct {
	schema *Schema
}

// NewBuilder validates the schema and returns a builder. A validation
// failure is a fatal ConfigurationError: extraction must not start with
// a broken contract.
func NewBuilder(schema *Schema) (*Builder, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Builder{schema: schema}, nil
}

// Schema returns the builder's frozen schema.
func (b *Builder) Schema() *Schema { return b.schema }

// Build maps the aggregated tokens and raw layout features onto the
// schema's ordered slots. Every slot is always emitted: a missing raw
// metric is filled with its documented fallback, never omitted.
func (b *Builder) Build(tok *tokens.DesignTokenSet, feat *layout.FeatureSet) *FeatureVector {
	raw := tokenMetrics(tok)
	if feat != nil {
		for name, v := range feat.Raw() {
			raw[name] = v
		}
		for _, name := range feat.Defaulted {
			delete(raw, name)
		}
	}

	v := &FeatureVector{
		Version:      b.schema.Version,
		FeatureNames: b.schema.Names(),
		Values:       make([]float64, b.schema.N()),
		Raw:          make([]float64, b.schema.N()),
	}
	for i, f := range b.schema.Features {
		x, ok := raw[f.Name]
		if !ok {
			fallback := f.Strategy.DefaultFallback()
			if f.Fallback != nil {
				fallback = *f.Fallback
			}
			v.Values[i] = fallback
			v.Raw[i] = math.NaN()
			continue
		}
		v.Values[i] = f.Strategy.Apply(x)
		v.Raw[i] = x
	}
	return v
}

// tokenMetrics derives the token-side raw scalars. A name absent from
// the map means the capture could not resolve that metric and the slot
// falls back.
func tokenMetrics(tok *tokens.DesignTokenSet) map[string]float64 {
	raw := make(map[string]float64)
	if tok == nil {
		return raw
	}

	if len(tok.Brand) > 0 {
		dominant := tok.Brand[0].Sample
		h := dominant.H * math.Pi / 180
		raw[SlotBrandHueCos] = math.Cos(h)
		raw[SlotBrandHueSin] = math.Sin(h)

		peak := 0.0
		for _, t := range tok.Brand {
			if t.Sample.C > peak {
				peak = t.Sample.C
			}
		}
		raw[SlotBrandChromaPeak] = peak
	}

	// An unresolved background means no non-white surface dominated,
	// so white is the factual page ground.
	bgL := 100.0
	if tok.Semantic.Background != "" {
		if s, ok := lch.Parse(tok.Semantic.Background); ok {
			bgL = s.L
		}
	}
	raw[SlotBgLightness] = bgL
	if tok.Semantic.Text != "" {
		if s, ok := lch.Parse(tok.Semantic.Text); ok {
			raw[SlotTextBgContrast] = math.Abs(s.L - bgL)
		}
	}

	if spread, ok := tierSpread(tok); ok {
		raw[SlotTierSpread] = spread
	}

	if sizes := tok.Typography.Sizes; len(sizes) > 0 {
		raw[SlotTypoSizeRange] = sizes[len(sizes)-1] - sizes[0]
	}

	if coherence, ok := layout.PaddingConsistency(tok.Spacing, 1.5); ok {
		raw[SlotSpacingCoherence] = coherence
	}
	return raw
}

// tierSpread is the normalized entropy of the four tier area shares:
// 0 when one tier owns the whole palette, 1 when area splits evenly.
func tierSpread(tok *tokens.DesignTokenSet) (float64, bool) {
	tiers := [][]tokens.ColorToken{tok.Foundation, tok.Tinted, tok.Accent, tok.Brand}
	var shares [4]float64
	var total float64
	for i, tier := range tiers {
		for _, t := range tier {
			shares[i] += t.Area
		}
		total += shares[i]
	}
	if total == 0 {
		return 0, false
	}
	var entropy float64
	for _, s := range shares {
		if s == 0 {
			continue
		}
		p := s / total
		entropy -= p * math.Log(p)
	}
	return entropy / math.Log(4), true
}
