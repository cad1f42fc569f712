// Package engine orchestrates one extraction: element records in,
// design tokens, raw layout features and the versioned fingerprint
// vector out.
//
// A single extraction is pure, synchronous and stateless. The stages
// run in order, style aggregation and geometry analysis feeding the
// vector builder, and every accumulation pass iterates a stable sort
// of the input, so an unmodified snapshot always produces a
// bit-identical vector. Independent extractions can run fully in
// parallel with no coordination.
package engine

import (
	"log/slog"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/layout"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/snapshot"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/tokens"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/vector"
)

// Config configures an Engine. The zero value extracts with the pinned
// V1 schema and calibrated layout tolerances.
type Config struct {
	// Schema is the frozen vector contract. Nil selects vector.V1.
	Schema *vector.Schema
	// Layout carries the analyzer tolerances.
	Layout layout.Config

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Schema == nil {
		c.Schema = vector.V1()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Layout.Logger == nil {
		c.Layout.Logger = c.Logger
	}
}

// Diagnostics describes how gracefully an extraction degraded, for the
// caller's observability layer. Extraction itself only fails on
// structural misconfiguration, never on bad samples.
type Diagnostics struct {
	Elements       int      `json:"elements"`
	SkippedSamples int      `json:"skippedSamples"`
	DefaultedSlots []string `json:"defaultedSlots,omitempty"`
}

// Result is one complete extraction: the intermediate token and
// feature sets for diagnostic consumers, and the vector for the store.
type Result struct {
	Tokens      *tokens.DesignTokenSet
	Features    *layout.FeatureSet
	Vector      *vector.FeatureVector
	Diagnostics Diagnostics
}

// Engine runs extractions against one validated schema revision.
type Engine struct {
	cfg     Config
	builder *vector.Builder
}

// New validates the configuration and returns an Engine. The only
// possible failure is a vector.ConfigurationError; fail here, at
// startup, rather than emitting meaningless vectors later.
func New(cfg Config) (*Engine, error) {
	cfg.defaults()
	builder, err := vector.NewBuilder(cfg.Schema)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, builder: builder}, nil
}

// Schema returns the engine's frozen schema.
func (e *Engine) Schema() *vector.Schema { return e.builder.Schema() }

// Extract runs the full pipeline over one snapshot.
func (e *Engine) Extract(snap *snapshot.Snapshot) (*Result, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	log := e.cfg.Logger

	tok := tokens.Aggregate(snap)
	feat := layout.Analyze(snap, e.cfg.Layout)
	vec := e.builder.Build(tok, feat)

	res := &Result{
		Tokens:   tok,
		Features: feat,
		Vector:   vec,
		Diagnostics: Diagnostics{
			Elements:       len(snap.Elements),
			SkippedSamples: tok.SkippedSamples,
			DefaultedSlots: feat.Defaulted,
		},
	}
	log.Debug("engine: extracted",
		"url", snap.URL,
		"elements", res.Diagnostics.Elements,
		"skipped_samples", res.Diagnostics.SkippedSamples,
		"defaulted_slots", len(res.Diagnostics.DefaultedSlots),
		"version", vec.Version)
	return res, nil
}
