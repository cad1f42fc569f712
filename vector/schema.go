package vector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/layout"
)

// Token-derived slot names. The layout slot names live in the layout
// package next to the metrics that produce them.
const (
	SlotBrandHueCos      = "brand_hue_cos"
	SlotBrandHueSin      = "brand_hue_sin"
	SlotBrandChromaPeak  = "brand_chroma_peak"
	SlotBgLightness      = "bg_lightness"
	SlotTextBgContrast   = "text_bg_contrast"
	SlotTierSpread       = "palette_tier_spread"
	SlotTypoSizeRange    = "typo_size_range"
	SlotSpacingCoherence = "spacing_scale_coherence"
)

// Feature is one named, ordered vector slot.
type Feature struct {
	Name     string   `yaml:"name" json:"name"`
	Strategy Strategy `yaml:"strategy" json:"strategy"`
	// Fallback overrides the strategy's default fallback slot value
	// when the raw metric is missing.
	Fallback *float64 `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// Schema is one frozen revision of the vector contract: its version
// identifier plus the ordered feature list. Any change to the set,
// order or parameters requires a new version; vectors from different
// versions must never be compared.
type Schema struct {
	Version  string    `yaml:"version" json:"version"`
	Features []Feature `yaml:"features" json:"features"`
}

// N returns the vector dimensionality.
func (s *Schema) N() int { return len(s.Features) }

// Names returns the ordered feature names.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Features))
	for i, f := range s.Features {
		names[i] = f.Name
	}
	return names
}

// Validate checks the schema structurally and validates every
// strategy's parameters. Any failure is a fatal ConfigurationError.
func (s *Schema) Validate() error {
	if s.Version == "" {
		return &ConfigurationError{Feature: "schema", Reason: "empty version"}
	}
	if len(s.Features) == 0 {
		return &ConfigurationError{Feature: "schema", Reason: "no features"}
	}
	seen := make(map[string]struct{}, len(s.Features))
	for _, f := range s.Features {
		if f.Name == "" {
			return &ConfigurationError{Feature: "schema", Reason: "unnamed feature"}
		}
		if _, dup := seen[f.Name]; dup {
			return &ConfigurationError{Feature: f.Name, Reason: "duplicate feature name"}
		}
		seen[f.Name] = struct{}{}
		if err := f.Strategy.Validate(f.Name); err != nil {
			return err
		}
	}
	return nil
}

// LoadSchema reads a schema revision from a YAML file. Used to supply
// recalibrated revisions (new bounds, new z-score populations) without
// a rebuild; the file content is frozen configuration, not runtime
// state.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vector: read schema %s: %w", path, err)
	}
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("vector: parse schema %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// V1 is the pinned first schema revision: 8 token-derived slots
// followed by the 16 layout slots. Bounds were calibrated against the
// reference corpus and are locked by regression tests; changing any of
// them means minting V2.
func V1() *Schema {
	return &Schema{
		Version: "v1",
		Features: []Feature{
			{Name: SlotBrandHueCos, Strategy: Strategy{Kind: Absolute, Min: -1, Max: 1}},
			{Name: SlotBrandHueSin, Strategy: Strategy{Kind: Absolute, Min: -1, Max: 1}},
			{Name: SlotBrandChromaPeak, Strategy: Strategy{Kind: Linear, Min: 0, Max: 132}},
			{Name: SlotBgLightness, Strategy: Strategy{Kind: Linear, Min: 0, Max: 100}},
			{Name: SlotTextBgContrast, Strategy: Strategy{Kind: Linear, Min: 0, Max: 100}},
			{Name: SlotTierSpread, Strategy: Strategy{Kind: Absolute, Min: 0, Max: 1}},
			{Name: SlotTypoSizeRange, Strategy: Strategy{Kind: Log, Midpoint: 16}},
			{Name: SlotSpacingCoherence, Strategy: Strategy{Kind: Sigmoid, K: 6, Mid: 0.5}},

			{Name: layout.MetricDensity, Strategy: Strategy{Kind: Log, Midpoint: 1.2}},
			{Name: layout.MetricWhitespace, Strategy: Strategy{Kind: Linear, Min: 0, Max: 80}},
			{Name: layout.MetricPadding, Strategy: Strategy{Kind: Absolute, Min: 0, Max: 1}},
			{Name: layout.MetricImageText, Strategy: Strategy{Kind: Log, Midpoint: 0.5}},
			{Name: layout.MetricBorders, Strategy: Strategy{Kind: Log, Midpoint: 0.4}},
			{Name: layout.MetricShadows, Strategy: Strategy{Kind: Linear, Min: 0, Max: 12}},
			{Name: layout.MetricGrouping, Strategy: Strategy{Kind: Linear, Min: 1, Max: 6}},
			{Name: layout.MetricComplexity, Strategy: Strategy{Kind: Linear, Min: 0, Max: 2}},
			{Name: layout.MetricHierarchy, Strategy: Strategy{Kind: Piecewise, Points: []Point{
				{X: 0, Y: 0}, {X: 0.2, Y: 0.3}, {X: 0.5, Y: 0.8}, {X: 1, Y: 1},
			}}},
			{Name: layout.MetricWeightContrast, Strategy: Strategy{Kind: Linear, Min: 0, Max: 600}},
			{Name: layout.MetricSaturation, Strategy: Strategy{Kind: Linear, Min: 0, Max: 100}},
			{Name: layout.MetricRoleDistinct, Strategy: Strategy{Kind: Linear, Min: 0, Max: 80}},
			{Name: layout.MetricRhythm, Strategy: Strategy{Kind: Absolute, Min: 0, Max: 1}},
			{Name: layout.MetricGrid, Strategy: Strategy{Kind: Sigmoid, K: 6, Mid: 0.5}},
			{Name: layout.MetricAboveFold, Strategy: Strategy{Kind: Absolute, Min: 0, Max: 1}},
			// Population stats from the reference corpus, frozen with
			// this revision.
			{Name: layout.MetricScaleVariance, Strategy: Strategy{Kind: LogZScore, Mean: 1.05, Std: 0.62}},
		},
	}
}
