// Package tokens builds a categorized design-token set from captured
// element records: palette tiers, semantic and contextual colors,
// typography aggregates, the spacing scale and shape tokens.
//
// Aggregation is a single fold over the stable-sorted element list.
// Unparsable style strings are skipped per element and counted, never
// fatal.
package tokens

import (
	"math"
	"sort"
	"strings"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/lch"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/snapshot"
)

// SpacingGrid is the rounding grid for the spacing scale, in px.
const SpacingGrid = 4.0

// ColorToken is one distinct color with its accumulated hit area.
type ColorToken struct {
	Hex    string
	Sample lch.Sample
	Area   float64
}

// SemanticColors are the resolved role colors. Empty string means the
// role could not be resolved from this capture.
type SemanticColors struct {
	Text       string
	Background string
	CTA        string
	Accent     string
	Muted      string
}

// ContextualColors group distinct hexes by where they were observed.
type ContextualColors struct {
	Buttons     []string
	Links       []string
	Backgrounds []string
	Borders     []string
}

// Typography aggregates font usage across the capture.
type Typography struct {
	Families    map[string]int
	Sizes       []float64
	Weights     []float64
	LineHeights []float64
}

// ShapeTokens collect corner radii and shadow declarations.
type ShapeTokens struct {
	Radii   []float64
	Shadows []string
}

// DesignTokenSet is the aggregated output of one capture. The four
// tiers partition every parsed palette color; each tier is sorted by
// accumulated area, largest first.
type DesignTokenSet struct {
	Foundation []ColorToken
	Tinted     []ColorToken
	Accent     []ColorToken
	Brand      []ColorToken

	Semantic   SemanticColors
	Contextual ContextualColors
	Typography Typography
	Spacing    []float64
	Shape      ShapeTokens

	// SkippedSamples counts style strings that failed to parse and
	// were dropped, for the caller's diagnostics.
	SkippedSamples int
}

// Palette returns all tier colors as one slice, foundation first.
func (t *DesignTokenSet) Palette() []ColorToken {
	out := make([]ColorToken, 0, len(t.Foundation)+len(t.Tinted)+len(t.Accent)+len(t.Brand))
	out = append(out, t.Foundation...)
	out = append(out, t.Tinted...)
	out = append(out, t.Accent...)
	out = append(out, t.Brand...)
	return out
}

type accumulator struct {
	colorArea map[string]float64    // all observed colors, area-weighted
	samples   map[string]lch.Sample // hex → parsed sample
	textArea  map[string]float64    // text colors only
	bgArea    map[string]float64    // background colors only

	families    map[string]int
	sizes       map[float64]struct{}
	weights     map[float64]struct{}
	lineHeights map[float64]struct{}
	spacing     map[float64]struct{}
	radii       map[float64]struct{}
	shadows     map[string]struct{}

	linkColors   map[string]float64
	borderColors map[string]float64

	skipped int
}

func newAccumulator() *accumulator {
	return &accumulator{
		colorArea:    make(map[string]float64),
		samples:      make(map[string]lch.Sample),
		textArea:     make(map[string]float64),
		bgArea:       make(map[string]float64),
		families:     make(map[string]int),
		sizes:        make(map[float64]struct{}),
		weights:      make(map[float64]struct{}),
		lineHeights:  make(map[float64]struct{}),
		spacing:      make(map[float64]struct{}),
		radii:        make(map[float64]struct{}),
		shadows:      make(map[string]struct{}),
		linkColors:   make(map[string]float64),
		borderColors: make(map[string]float64),
	}
}

// Aggregate scans the snapshot and builds its DesignTokenSet.
func Aggregate(snap *snapshot.Snapshot) *DesignTokenSet {
	acc := newAccumulator()
	elems := snap.Sorted()
	for i := range elems {
		acc.element(&elems[i])
	}

	set := &DesignTokenSet{SkippedSamples: acc.skipped}
	acc.fillTiers(set)
	acc.fillTypography(set)
	acc.fillScales(set)
	acc.fillSemantic(set, elems, snap.Viewport)
	acc.fillContextual(set, elems)
	return set
}

func (a *accumulator) element(e *snapshot.ElementRecord) {
	area := e.BBox.Area()

	a.color(e.Style(snapshot.PropColor), area, a.textArea)
	a.color(e.Style(snapshot.PropBackgroundColor), area, a.bgArea)

	a.typography(e)
	a.spacingAndShape(e)

	if border, ok := snapshot.ParseBorder(e.Style(snapshot.PropBorder)); ok && border.Visible() && border.Color != "" {
		if s, ok := lch.Parse(border.Color); ok && s.Alpha > 0 {
			a.borderColors[s.Hex] += area
			a.observe(s, 0)
		} else if !ok {
			a.skipped++
		}
	}

	if isLink(e) {
		if s, ok := lch.Parse(e.Style(snapshot.PropColor)); ok && s.Alpha > 0 {
			a.linkColors[s.Hex] += area
		}
	}
}

// color parses one color declaration and accumulates it both in the
// role-specific map and in the global area-weighted palette.
func (a *accumulator) color(raw string, area float64, role map[string]float64) {
	if raw == "" {
		return
	}
	s, ok := lch.Parse(raw)
	if !ok {
		a.skipped++
		return
	}
	if s.Alpha <= 0 {
		return
	}
	role[s.Hex] += area
	a.observe(s, area)
}

func (a *accumulator) observe(s lch.Sample, area float64) {
	a.colorArea[s.Hex] += area
	a.samples[s.Hex] = s
}

func (a *accumulator) typography(e *snapshot.ElementRecord) {
	if fam := e.Style(snapshot.PropFontFamily); fam != "" {
		if primary := snapshot.PrimaryFontFamily(fam); primary != "" {
			a.families[primary]++
		}
	}
	size, sizeOK := snapshot.ParseLength(e.Style(snapshot.PropFontSize))
	if sizeOK && size > 0 {
		a.sizes[size] = struct{}{}
	}
	if w, ok := snapshot.ParseFontWeight(e.Style(snapshot.PropFontWeight)); ok {
		a.weights[w] = struct{}{}
	}
	if lh, ok := snapshot.ParseLineHeight(e.Style(snapshot.PropLineHeight), size); ok {
		a.lineHeights[lh] = struct{}{}
	}
}

func (a *accumulator) spacingAndShape(e *snapshot.ElementRecord) {
	for _, prop := range []string{snapshot.PropMargin, snapshot.PropPadding} {
		for _, v := range snapshot.ParseLengthList(e.Style(prop)) {
			if v > 0 {
				a.spacing[math.Round(v/SpacingGrid)*SpacingGrid] = struct{}{}
			}
		}
	}
	for _, r := range snapshot.ParseLengthList(e.Style(snapshot.PropBorderRadius)) {
		if r > 0 {
			a.radii[r] = struct{}{}
		}
	}
	if sh := e.Style(snapshot.PropBoxShadow); sh != "" && !strings.EqualFold(sh, "none") {
		if len(snapshot.ParseShadows(sh)) > 0 {
			a.shadows[strings.Join(strings.Fields(sh), " ")] = struct{}{}
		} else {
			a.skipped++
		}
	}
}

// fillTiers partitions every observed color into exactly one tier.
func (a *accumulator) fillTiers(set *DesignTokenSet) {
	for _, hex := range sortedKeys(a.colorArea) {
		tok := ColorToken{Hex: hex, Sample: a.samples[hex], Area: a.colorArea[hex]}
		switch tok.Sample.Tier() {
		case lch.TierFoundation:
			set.Foundation = append(set.Foundation, tok)
		case lch.TierTinted:
			set.Tinted = append(set.Tinted, tok)
		case lch.TierAccent:
			set.Accent = append(set.Accent, tok)
		case lch.TierBrand:
			set.Brand = append(set.Brand, tok)
		}
	}
	for _, tier := range [][]ColorToken{set.Foundation, set.Tinted, set.Accent, set.Brand} {
		sortTokens(tier)
	}
}

func (a *accumulator) fillTypography(set *DesignTokenSet) {
	set.Typography = Typography{
		Families:    a.families,
		Sizes:       sortedFloats(a.sizes),
		Weights:     sortedFloats(a.weights),
		LineHeights: sortedFloats(a.lineHeights),
	}
}

func (a *accumulator) fillScales(set *DesignTokenSet) {
	set.Spacing = sortedFloats(a.spacing)
	set.Shape = ShapeTokens{
		Radii:   sortedFloats(a.radii),
		Shadows: sortedStrings(a.shadows),
	}
}

func (a *accumulator) fillSemantic(set *DesignTokenSet, elems []snapshot.ElementRecord, vp snapshot.Viewport) {
	set.Semantic.Text = topAreaHex(a.textArea)
	set.Semantic.Background = resolveBackground(elems, vp)

	buttons := DetectButtons(elems)
	set.Semantic.CTA = ctaColor(buttons, set.Semantic.Text, set.Semantic.Background)

	set.Semantic.Accent = a.accentColor(set.Semantic.Text, set.Semantic.Background)
	set.Semantic.Muted = a.mutedColor(set.Semantic.Text, set.Semantic.Background)
}

// accentColor picks the highest-chroma observed color that is not the
// resolved text or background. Area breaks chroma ties.
func (a *accumulator) accentColor(text, bg string) string {
	best := ""
	var bestC, bestArea float64
	for _, hex := range sortedKeys(a.colorArea) {
		if hex == text || hex == bg {
			continue
		}
		s := a.samples[hex]
		if s.C < lch.ChromaAccent {
			continue
		}
		if s.C > bestC || (s.C == bestC && a.colorArea[hex] > bestArea) {
			best, bestC, bestArea = hex, s.C, a.colorArea[hex]
		}
	}
	return best
}

// mutedColor picks the most-used low-chroma mid-lightness color that is
// not the resolved text or background.
func (a *accumulator) mutedColor(text, bg string) string {
	best := ""
	var bestArea float64
	for _, hex := range sortedKeys(a.colorArea) {
		if hex == text || hex == bg {
			continue
		}
		s := a.samples[hex]
		if s.C >= lch.ChromaAccent || s.L < 25 || s.L > 85 {
			continue
		}
		if a.colorArea[hex] > bestArea {
			best, bestArea = hex, a.colorArea[hex]
		}
	}
	return best
}

func (a *accumulator) fillContextual(set *DesignTokenSet, elems []snapshot.ElementRecord) {
	for _, b := range DetectButtons(elems) {
		if b.Background != "" {
			set.Contextual.Buttons = appendUnique(set.Contextual.Buttons, b.Background)
		}
	}
	for _, hex := range sortedKeys(a.linkColors) {
		set.Contextual.Links = append(set.Contextual.Links, hex)
	}
	for _, hex := range sortedKeys(a.bgArea) {
		set.Contextual.Backgrounds = append(set.Contextual.Backgrounds, hex)
	}
	for _, hex := range sortedKeys(a.borderColors) {
		set.Contextual.Borders = append(set.Contextual.Borders, hex)
	}
}

// resolveBackground resolves the page background by priority: an
// explicit non-white document-level background wins, then the largest
// visible element with a non-white background, then none.
func resolveBackground(elems []snapshot.ElementRecord, vp snapshot.Viewport) string {
	for i := range elems {
		e := &elems[i]
		tag := strings.ToLower(e.Tag)
		if tag != "html" && tag != "body" {
			continue
		}
		if hex, ok := nonWhiteBackground(e); ok {
			return hex
		}
	}

	best := ""
	var bestArea float64
	for i := range elems {
		e := &elems[i]
		if !e.Visible() {
			continue
		}
		hex, ok := nonWhiteBackground(e)
		if !ok {
			continue
		}
		if area := e.BBox.Area(); area > bestArea {
			best, bestArea = hex, area
		}
	}
	return best
}

func nonWhiteBackground(e *snapshot.ElementRecord) (string, bool) {
	s, ok := lch.Parse(e.Style(snapshot.PropBackgroundColor))
	if !ok || s.Alpha <= 0 || s.Hex == "#ffffff" {
		return "", false
	}
	return s.Hex, true
}

func topAreaHex(m map[string]float64) string {
	best := ""
	var bestArea float64
	for _, hex := range sortedKeys(m) {
		if m[hex] > bestArea {
			best, bestArea = hex, m[hex]
		}
	}
	return best
}

func isLink(e *snapshot.ElementRecord) bool {
	return strings.EqualFold(e.Tag, "a") || strings.EqualFold(e.Role, "link")
}

func sortTokens(toks []ColorToken) {
	sort.SliceStable(toks, func(i, j int) bool {
		if toks[i].Area != toks[j].Area {
			return toks[i].Area > toks[j].Area
		}
		return toks[i].Hex < toks[j].Hex
	})
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFloats(m map[float64]struct{}) []float64 {
	out := make([]float64, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

func sortedStrings(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
