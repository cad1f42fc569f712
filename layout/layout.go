// Package layout computes the raw layout, typography and shape metrics
// of one captured page: sixteen named scalars covering density,
// whitespace, grouping, alignment, rhythm and color energy.
//
// All metrics are raw (pre-normalization). Under-populated inputs fall
// back to the neutral default 0.5 rather than producing an undefined
// ratio, and every fallback is recorded in the feature set.
package layout

import (
	"log/slog"
	"math"
	"sort"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/lch"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/snapshot"
)

// Raw metric names. These double as the layout slot names in the
// versioned vector schema.
const (
	MetricDensity        = "spacing_density_score"
	MetricWhitespace     = "spacing_whitespace_ratio"
	MetricPadding        = "spacing_padding_consistency"
	MetricImageText      = "spacing_image_text_balance"
	MetricBorders        = "shape_border_heaviness"
	MetricShadows        = "shape_shadow_depth"
	MetricGrouping       = "shape_grouping_strength"
	MetricComplexity     = "shape_compositional_complexity"
	MetricHierarchy      = "typo_hierarchy_depth"
	MetricWeightContrast = "typo_weight_contrast"
	MetricSaturation     = "brand_color_saturation_energy"
	MetricRoleDistinct   = "brand_color_role_distinction"
	MetricRhythm         = "layout_vertical_rhythm"
	MetricGrid           = "layout_grid_regularity"
	MetricAboveFold      = "layout_above_fold_density"
	MetricScaleVariance  = "layout_element_scale_variance"
)

// NeutralDefault is emitted when a metric has too few samples to be
// meaningful. A defined approximate value beats a missing slot.
const NeutralDefault = 0.5

// Config carries the analyzer tolerances. The zero value is usable;
// defaults() pins the calibrated constants.
type Config struct {
	// BandTolerance is the vertical-overlap slack when partitioning
	// elements into horizontal bands, in px.
	BandTolerance float64
	// ProximityTolerance is the maximum pairwise gap for two elements
	// to share a proximity group, in px.
	ProximityTolerance float64
	// GridTolerance is the coordinate slack for alignment lines, in px.
	GridTolerance float64
	// MinAlignment is the minimum cluster size for an alignment line.
	MinAlignment int
	// RhythmK is the half-response point of the vertical rhythm curve.
	RhythmK float64
	// PaddingCoVCap normalizes the padding coefficient of variation;
	// CoV at or beyond the cap reads as fully inconsistent.
	PaddingCoVCap float64
	// ImageTextCap bounds the image/text area ratio when a page has
	// images but no text.
	ImageTextCap float64
	// FoldCountScale is the above-fold element count that maps to the
	// midpoint of the compressive log curve.
	FoldCountScale float64

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.BandTolerance <= 0 {
		c.BandTolerance = 20
	}
	if c.ProximityTolerance <= 0 {
		c.ProximityTolerance = 32
	}
	if c.GridTolerance <= 0 {
		c.GridTolerance = 10
	}
	if c.MinAlignment <= 0 {
		c.MinAlignment = 3
	}
	if c.RhythmK <= 0 {
		c.RhythmK = 0.8
	}
	if c.PaddingCoVCap <= 0 {
		c.PaddingCoVCap = 1.5
	}
	if c.ImageTextCap <= 0 {
		c.ImageTextCap = 10
	}
	if c.FoldCountScale <= 0 {
		c.FoldCountScale = 30
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// FeatureSet holds the sixteen raw scalars. Units are documented per
// field; none of the values are normalized here.
type FeatureSet struct {
	Density        float64 // Σ element area / viewport area, overlaps counted (dimensionless, can exceed 1)
	Whitespace     float64 // blended band gaps, vertical weighted 2× (px)
	Padding        float64 // 1 − capped CoV of non-zero paddings ([0,1])
	ImageText      float64 // image bbox area / text bbox area (dimensionless)
	Borders        float64 // Σ perimeter×border-width / viewport perimeter (dimensionless)
	Shadows        float64 // mean blur×opacity over shadow layers (px)
	Grouping       float64 // mean inter/intra group spacing ratio (dimensionless)
	Complexity     float64 // group count / √element count (dimensionless)
	Hierarchy      float64 // CoV of font sizes (dimensionless)
	WeightContrast float64 // max−min font weight (weight units)
	Saturation     float64 // area-weighted mean chroma (LCh chroma units)
	RoleDistinct   float64 // mean pairwise perceptual distance over distinct colors
	Rhythm         float64 // rhythm curve over band start-y gap CoV ((0,1])
	Grid           float64 // mean fraction of elements on alignment lines ([0,1])
	AboveFold      float64 // log-normalized blend of first-viewport densities ([0,1])
	ScaleVariance  float64 // avg of area CoV and IQR/median ratio (dimensionless)

	// Defaulted lists the metrics that fell back to NeutralDefault.
	Defaulted []string
}

// Raw returns the metrics keyed by their schema names.
func (f *FeatureSet) Raw() map[string]float64 {
	return map[string]float64{
		MetricDensity:        f.Density,
		MetricWhitespace:     f.Whitespace,
		MetricPadding:        f.Padding,
		MetricImageText:      f.ImageText,
		MetricBorders:        f.Borders,
		MetricShadows:        f.Shadows,
		MetricGrouping:       f.Grouping,
		MetricComplexity:     f.Complexity,
		MetricHierarchy:      f.Hierarchy,
		MetricWeightContrast: f.WeightContrast,
		MetricSaturation:     f.Saturation,
		MetricRoleDistinct:   f.RoleDistinct,
		MetricRhythm:         f.Rhythm,
		MetricGrid:           f.Grid,
		MetricAboveFold:      f.AboveFold,
		MetricScaleVariance:  f.ScaleVariance,
	}
}

// Analyze computes the raw feature set for one snapshot.
func Analyze(snap *snapshot.Snapshot, cfg Config) *FeatureSet {
	cfg.defaults()
	elems := visibleSorted(snap)

	a := &analysis{cfg: cfg, vp: snap.Viewport, elems: elems}
	fs := &FeatureSet{}

	set := func(dst *float64, name string, v float64, ok bool) {
		if !ok {
			*dst = NeutralDefault
			fs.Defaulted = append(fs.Defaulted, name)
			return
		}
		*dst = v
	}

	setFrom := func(dst *float64, name string, fn func() (float64, bool)) {
		v, ok := fn()
		set(dst, name, v, ok)
	}

	setFrom(&fs.Density, MetricDensity, a.density)
	setFrom(&fs.Whitespace, MetricWhitespace, a.whitespace)
	setFrom(&fs.Padding, MetricPadding, a.paddingConsistency)
	setFrom(&fs.ImageText, MetricImageText, a.imageTextBalance)
	setFrom(&fs.Borders, MetricBorders, a.borderHeaviness)
	setFrom(&fs.Shadows, MetricShadows, a.shadowDepth)
	setFrom(&fs.Grouping, MetricGrouping, a.groupingStrength)
	setFrom(&fs.Complexity, MetricComplexity, a.complexity)
	setFrom(&fs.Hierarchy, MetricHierarchy, a.hierarchyDepth)
	setFrom(&fs.WeightContrast, MetricWeightContrast, a.weightContrast)
	setFrom(&fs.Saturation, MetricSaturation, a.saturationEnergy)
	setFrom(&fs.RoleDistinct, MetricRoleDistinct, a.roleDistinction)
	setFrom(&fs.Rhythm, MetricRhythm, a.verticalRhythm)
	setFrom(&fs.Grid, MetricGrid, a.gridRegularity)
	setFrom(&fs.AboveFold, MetricAboveFold, a.aboveFoldDensity)
	setFrom(&fs.ScaleVariance, MetricScaleVariance, a.scaleVariance)

	if len(fs.Defaulted) > 0 {
		cfg.Logger.Debug("layout: metrics defaulted", "count", len(fs.Defaulted), "metrics", fs.Defaulted)
	}
	return fs
}

func visibleSorted(snap *snapshot.Snapshot) []snapshot.ElementRecord {
	sorted := snap.Sorted()
	out := sorted[:0]
	for _, e := range sorted {
		if e.Visible() {
			out = append(out, e)
		}
	}
	return out
}

type analysis struct {
	cfg   Config
	vp    snapshot.Viewport
	elems []snapshot.ElementRecord

	groupsMemo [][]int
	bandsMemo  []band
	haveGroups bool
	haveBands  bool
}

func (a *analysis) groups() [][]int {
	if !a.haveGroups {
		a.groupsMemo = proximityGroups(a.elems, a.cfg.ProximityTolerance)
		a.haveGroups = true
	}
	return a.groupsMemo
}

func (a *analysis) bands() []band {
	if !a.haveBands {
		a.bandsMemo = bands(a.elems, a.cfg.BandTolerance)
		a.haveBands = true
	}
	return a.bandsMemo
}

// density sums element areas over the viewport area. Overlaps count:
// stacked and layered elements are common and raise perceived density.
func (a *analysis) density() (float64, bool) {
	vpArea := a.vp.Area()
	if vpArea == 0 || len(a.elems) == 0 {
		return 0, false
	}
	var sum float64
	for i := range a.elems {
		sum += a.elems[i].BBox.Area()
	}
	return sum / vpArea, true
}

// whitespace blends vertical gaps between consecutive bands with
// horizontal gaps between band neighbours, vertical counted twice.
func (a *analysis) whitespace() (float64, bool) {
	bs := a.bands()
	if len(a.elems) < 2 {
		return 0, false
	}

	var vGaps []float64
	for i := 1; i < len(bs); i++ {
		gap := bs[i].top - bs[i-1].bottom
		if gap < 0 {
			gap = 0
		}
		vGaps = append(vGaps, gap)
	}

	var hGaps []float64
	for _, b := range bs {
		boxes := make([]snapshot.BBox, 0, len(b.members))
		for _, idx := range b.members {
			boxes = append(boxes, a.elems[idx].BBox)
		}
		sort.Slice(boxes, func(i, j int) bool { return boxes[i].X < boxes[j].X })
		for i := 1; i < len(boxes); i++ {
			gap := boxes[i].X - boxes[i-1].Right()
			if gap > 0 {
				hGaps = append(hGaps, gap)
			}
		}
	}

	if len(vGaps) == 0 && len(hGaps) == 0 {
		return 0, false
	}
	switch {
	case len(hGaps) == 0:
		return mean(vGaps), true
	case len(vGaps) == 0:
		return mean(hGaps), true
	}
	return (2*mean(vGaps) + mean(hGaps)) / 3, true
}

// paddingConsistency inverts the capped CoV of all non-zero padding
// edge values.
func (a *analysis) paddingConsistency() (float64, bool) {
	var pads []float64
	for i := range a.elems {
		for _, v := range snapshot.ParseLengthList(a.elems[i].Style(snapshot.PropPadding)) {
			if v > 0 {
				pads = append(pads, v)
			}
		}
	}
	return PaddingConsistency(pads, a.cfg.PaddingCoVCap)
}

// PaddingConsistency is the raw consistency score for a padding sample:
// 1 − min(CoV/covCap, 1). Exported for calibration tooling.
func PaddingConsistency(pads []float64, covCap float64) (float64, bool) {
	if len(pads) < 2 {
		return 0, false
	}
	cv := coefficientOfVariation(pads)
	norm := cv / covCap
	if norm > 1 {
		norm = 1
	}
	return 1 - norm, true
}

func (a *analysis) imageTextBalance() (float64, bool) {
	var imgArea, textArea float64
	for i := range a.elems {
		e := &a.elems[i]
		if e.IsImage() {
			imgArea += e.BBox.Area()
		}
		if e.TrimmedText() != "" {
			textArea += e.BBox.Area()
		}
	}
	if textArea == 0 {
		if imgArea == 0 {
			return 0, false
		}
		return a.cfg.ImageTextCap, true
	}
	ratio := imgArea / textArea
	if ratio > a.cfg.ImageTextCap {
		ratio = a.cfg.ImageTextCap
	}
	return ratio, true
}

// borderHeaviness weighs each bordered element's perimeter by its
// border width, against the viewport perimeter.
func (a *analysis) borderHeaviness() (float64, bool) {
	vpPerim := 2 * (a.vp.Width + a.vp.Height)
	if vpPerim == 0 || len(a.elems) == 0 {
		return 0, false
	}
	var sum float64
	for i := range a.elems {
		e := &a.elems[i]
		border, ok := snapshot.ParseBorder(e.Style(snapshot.PropBorder))
		if !ok || !border.Visible() {
			continue
		}
		sum += e.BBox.Perimeter() * border.Width
	}
	return sum / vpPerim, true
}

// shadowDepth is the mean blur×opacity over every shadow layer.
func (a *analysis) shadowDepth() (float64, bool) {
	var depths []float64
	for i := range a.elems {
		for _, sh := range snapshot.ParseShadows(a.elems[i].Style(snapshot.PropBoxShadow)) {
			opacity := 1.0
			if sh.Color != "" {
				if s, ok := lch.Parse(sh.Color); ok {
					opacity = s.Alpha
				}
			}
			depths = append(depths, sh.Blur*opacity)
		}
	}
	if len(depths) == 0 {
		return 0, true // no shadows is a meaningful flat-design signal
	}
	return mean(depths), true
}

// groupingStrength averages, per proximity group, the ratio of mean
// inter-group spacing to mean intra-group spacing. Strong gestalt
// grouping means members sit much closer to each other than to other
// groups.
func (a *analysis) groupingStrength() (float64, bool) {
	groups := a.groups()
	if len(groups) < 2 {
		return 0, false
	}

	centroids := make([][2]float64, len(groups))
	for gi, g := range groups {
		var cx, cy float64
		for _, idx := range g {
			cx += a.elems[idx].BBox.CenterX()
			cy += a.elems[idx].BBox.CenterY()
		}
		centroids[gi] = [2]float64{cx / float64(len(g)), cy / float64(len(g))}
	}

	var ratios []float64
	for gi, g := range groups {
		intra := a.intraSpacing(g)
		if intra <= 0 {
			continue
		}
		var interSum float64
		for gj := range groups {
			if gj == gi {
				continue
			}
			dx := centroids[gi][0] - centroids[gj][0]
			dy := centroids[gi][1] - centroids[gj][1]
			interSum += math.Hypot(dx, dy)
		}
		inter := interSum / float64(len(groups)-1)
		ratios = append(ratios, inter/intra)
	}
	if len(ratios) == 0 {
		return 0, false
	}
	return mean(ratios), true
}

func (a *analysis) intraSpacing(group []int) float64 {
	if len(group) < 2 {
		return 0
	}
	var sum float64
	var n int
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			bi := a.elems[group[i]].BBox
			bj := a.elems[group[j]].BBox
			sum += math.Hypot(bi.CenterX()-bj.CenterX(), bi.CenterY()-bj.CenterY())
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// complexity is the proximity group count over √element count.
func (a *analysis) complexity() (float64, bool) {
	if len(a.elems) < 2 {
		return 0, false
	}
	return float64(len(a.groups())) / math.Sqrt(float64(len(a.elems))), true
}

func (a *analysis) hierarchyDepth() (float64, bool) {
	var sizes []float64
	for i := range a.elems {
		if v, ok := snapshot.ParseLength(a.elems[i].Style(snapshot.PropFontSize)); ok && v > 0 {
			sizes = append(sizes, v)
		}
	}
	if len(sizes) < 2 {
		return 0, false
	}
	return coefficientOfVariation(sizes), true
}

func (a *analysis) weightContrast() (float64, bool) {
	minW, maxW := math.Inf(1), math.Inf(-1)
	found := false
	for i := range a.elems {
		if w, ok := snapshot.ParseFontWeight(a.elems[i].Style(snapshot.PropFontWeight)); ok {
			found = true
			if w < minW {
				minW = w
			}
			if w > maxW {
				maxW = w
			}
		}
	}
	if !found {
		return 0, false
	}
	return maxW - minW, true
}

// saturationEnergy is the area-weighted mean chroma of background
// colors, with text colors contributing at half weight.
func (a *analysis) saturationEnergy() (float64, bool) {
	var weighted, weight float64
	for i := range a.elems {
		e := &a.elems[i]
		area := e.BBox.Area()
		if s, ok := lch.Parse(e.Style(snapshot.PropBackgroundColor)); ok && s.Alpha > 0 {
			weighted += s.C * area
			weight += area
		}
		if s, ok := lch.Parse(e.Style(snapshot.PropColor)); ok && s.Alpha > 0 {
			weighted += s.C * area * 0.5
			weight += area * 0.5
		}
	}
	if weight == 0 {
		return 0, false
	}
	return weighted / weight, true
}

// roleDistinction is the mean pairwise perceptual distance across all
// distinct colors observed in the capture.
func (a *analysis) roleDistinction() (float64, bool) {
	seen := make(map[string]lch.Sample)
	var order []string
	observe := func(raw string) {
		s, ok := lch.Parse(raw)
		if !ok || s.Alpha <= 0 {
			return
		}
		if _, dup := seen[s.Hex]; !dup {
			seen[s.Hex] = s
			order = append(order, s.Hex)
		}
	}
	for i := range a.elems {
		observe(a.elems[i].Style(snapshot.PropColor))
		observe(a.elems[i].Style(snapshot.PropBackgroundColor))
	}
	if len(order) < 2 {
		return 0, false
	}
	var sum float64
	var n int
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			sum += lch.Distance(seen[order[i]], seen[order[j]])
			n++
		}
	}
	return sum / float64(n), true
}

// verticalRhythm measures how evenly bands start down the page: the
// CoV of consecutive band start-y gaps through the rhythm curve.
func (a *analysis) verticalRhythm() (float64, bool) {
	bs := a.bands()
	if len(bs) < 3 {
		return 0, false
	}
	var gaps []float64
	for i := 1; i < len(bs); i++ {
		gaps = append(gaps, bs[i].top-bs[i-1].top)
	}
	return rhythmCurve(coefficientOfVariation(gaps), a.cfg.RhythmK), true
}

// gridRegularity clusters left edges and top edges independently and
// averages the fraction of elements on surviving alignment lines.
func (a *analysis) gridRegularity() (float64, bool) {
	if len(a.elems) < a.cfg.MinAlignment {
		return 0, false
	}
	xs := make([]float64, len(a.elems))
	ys := make([]float64, len(a.elems))
	for i := range a.elems {
		xs[i] = a.elems[i].BBox.X
		ys[i] = a.elems[i].BBox.Y
	}
	xScore := alignmentScore(xs, a.cfg.GridTolerance, a.cfg.MinAlignment)
	yScore := alignmentScore(ys, a.cfg.GridTolerance, a.cfg.MinAlignment)
	return (xScore + yScore) / 2, true
}

// ColumnAlignmentRatio is the x-axis alignment score alone, exported
// for calibration and regression fixtures.
func ColumnAlignmentRatio(xs []float64, tol float64, minSize int) float64 {
	return alignmentScore(xs, tol, minSize)
}

// aboveFoldDensity blends the area density and element-count density of
// the first viewport height, each through the compressive log map.
func (a *analysis) aboveFoldDensity() (float64, bool) {
	vpArea := a.vp.Area()
	if vpArea == 0 {
		return 0, false
	}
	var area float64
	var count int
	for i := range a.elems {
		if a.elems[i].BBox.Y < a.vp.Height {
			area += a.elems[i].BBox.Area()
			count++
		}
	}
	if count == 0 {
		return 0, true
	}
	areaComponent := logCompress(area/vpArea, 1.0)
	countComponent := logCompress(float64(count)/a.cfg.FoldCountScale, 1.0)
	return (areaComponent + countComponent) / 2, true
}

// scaleVariance mixes the CoV of element areas with their IQR over the
// median, catching both smooth and heavy-tailed size spreads.
func (a *analysis) scaleVariance() (float64, bool) {
	if len(a.elems) < 3 {
		return 0, false
	}
	areas := make([]float64, len(a.elems))
	for i := range a.elems {
		areas[i] = a.elems[i].BBox.Area()
	}
	cv := coefficientOfVariation(areas)
	q1, q2, q3 := quartiles(areas)
	iqrRatio := 0.0
	if q2 > 0 {
		iqrRatio = (q3 - q1) / q2
	}
	return (cv + iqrRatio) / 2, true
}
