package vector

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Report renders one vector as a human-readable feature table, grouped
// by the name prefixes (typo_, spacing_, shape_, brand_color_,
// layout_). Diagnostic output for operators, not a wire format.
func Report(v *FeatureVector) string {
	groups := map[string][]int{}
	var order []string
	for i, name := range v.FeatureNames {
		g := groupOf(name)
		if _, seen := groups[g]; !seen {
			order = append(order, g)
		}
		groups[g] = append(groups[g], i)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "feature vector %s (%d dims)\n", v.Version, len(v.Values))
	for _, g := range order {
		fmt.Fprintf(&sb, "\n[%s]\n", g)
		for _, i := range groups[g] {
			bar := renderBar(v.Values[i])
			if len(v.Raw) > i && !math.IsNaN(v.Raw[i]) {
				fmt.Fprintf(&sb, "  %-34s %6.3f %s (raw %.3f)\n", v.FeatureNames[i], v.Values[i], bar, v.Raw[i])
			} else {
				fmt.Fprintf(&sb, "  %-34s %6.3f %s (fallback)\n", v.FeatureNames[i], v.Values[i], bar)
			}
		}
	}
	if traits := Personality(v); len(traits) > 0 {
		fmt.Fprintf(&sb, "\npersonality: %s\n", strings.Join(traits, ", "))
	}
	return sb.String()
}

func groupOf(name string) string {
	for _, prefix := range []string{"brand_color_", "typo_", "spacing_", "shape_", "layout_", "brand_", "bg_", "text_", "palette_"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimSuffix(prefix, "_")
		}
	}
	return "other"
}

func renderBar(v float64) string {
	const width = 20
	frac := v
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Personality derives threshold-based design-trait labels from slot
// values, mirroring the analysis reports the feature set was calibrated
// with.
func Personality(v *FeatureVector) []string {
	val := func(name string) (float64, bool) {
		for i, n := range v.FeatureNames {
			if n == name {
				return v.Values[i], true
			}
		}
		return 0, false
	}

	var traits []string
	add := func(name string, hi float64, hiLabel string, lo float64, loLabel string) {
		x, ok := val(name)
		if !ok {
			return
		}
		if x > hi {
			traits = append(traits, hiLabel)
		} else if x < lo {
			traits = append(traits, loLabel)
		}
	}

	add("spacing_whitespace_ratio", 0.7, "generous whitespace", 0.4, "tight spacing")
	add("spacing_density_score", 0.8, "dense content", 0.5, "minimal content")
	add("shape_shadow_depth", 0.3, "elevated surfaces", 0.1, "flat design")
	add("shape_border_heaviness", 0.3, "heavy borders", 0.1, "minimal borders")
	add("brand_color_saturation_energy", 0.5, "vibrant colors", 0.2, "muted palette")
	add("spacing_padding_consistency", 0.7, "systematic spacing", 0.3, "variable spacing")
	add("spacing_image_text_balance", 0.5, "image-heavy", 0.1, "text-focused")
	return traits
}

// CompareReport renders two same-version vectors side by side with
// per-feature deltas, largest deltas first.
func CompareReport(a, b *FeatureVector) (string, error) {
	if a.Version != b.Version {
		return "", &VersionMismatchError{A: a.Version, B: b.Version}
	}
	cos, err := Cosine(a, b)
	if err != nil {
		return "", err
	}

	type row struct {
		name  string
		av    float64
		bv    float64
		delta float64
	}
	rows := make([]row, 0, len(a.Values))
	for i := range a.Values {
		name := ""
		if i < len(a.FeatureNames) {
			name = a.FeatureNames[i]
		}
		rows = append(rows, row{
			name:  name,
			av:    a.Values[i],
			bv:    b.Values[i],
			delta: math.Abs(a.Values[i] - b.Values[i]),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].delta > rows[j].delta })

	var sb strings.Builder
	fmt.Fprintf(&sb, "cosine similarity: %.4f (%s)\n", cos, a.Version)
	fmt.Fprintf(&sb, "%-34s %8s %8s %8s\n", "feature", "a", "b", "delta")
	for _, r := range rows {
		fmt.Fprintf(&sb, "%-34s %8.3f %8.3f %8.3f\n", r.name, r.av, r.bv, r.delta)
	}
	return sb.String(), nil
}
