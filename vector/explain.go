package vector

import (
	"fmt"
	"math"
	"sort"
)

// VersionMismatchError is returned when two vectors from different
// schema revisions are compared. Extraction never raises it; only
// comparing callers do.
type VersionMismatchError struct {
	A, B string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("vector: version mismatch: %q vs %q", e.A, e.B)
}

// Contribution is one dimension's share of a cosine similarity.
type Contribution struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	// Value is û_i·v̂_i; the contributions sum to the scalar cosine.
	Value float64 `json:"value"`
	// RawDelta is the absolute pre-normalization difference, because a
	// small normalized difference can hide a large raw one. NaN when
	// either side lacked the raw metric.
	RawDelta float64 `json:"rawDelta"`
}

// Explanation decomposes the cosine similarity of two same-version
// vectors into per-dimension contributions.
type Explanation struct {
	Version       string         `json:"version"`
	Cosine        float64        `json:"cosine"`
	Contributions []Contribution `json:"contributions"`
	Top           []Contribution `json:"top"`
	Bottom        []Contribution `json:"bottom"`
}

// Explain L2-normalizes both vectors and reports each dimension's
// signed contribution, plus the top-K and bottom-K dimensions. The
// contributions sum to the scalar cosine similarity within floating
// tolerance.
func Explain(u, v *FeatureVector, k int) (*Explanation, error) {
	if u.Version != v.Version {
		return nil, &VersionMismatchError{A: u.Version, B: v.Version}
	}
	if len(u.Values) != len(v.Values) {
		return nil, fmt.Errorf("vector: dimension mismatch: %d vs %d", len(u.Values), len(v.Values))
	}
	n := len(u.Values)
	if n == 0 {
		return nil, fmt.Errorf("vector: explain on empty vectors")
	}
	nu := norm(u.Values)
	nv := norm(v.Values)
	if nu == 0 || nv == 0 {
		return nil, fmt.Errorf("vector: explain with zero-magnitude vector")
	}

	ex := &Explanation{Version: u.Version, Contributions: make([]Contribution, n)}
	for i := 0; i < n; i++ {
		c := Contribution{
			Index:    i,
			Value:    (u.Values[i] / nu) * (v.Values[i] / nv),
			RawDelta: math.NaN(),
		}
		if i < len(u.FeatureNames) {
			c.Name = u.FeatureNames[i]
		}
		if i < len(u.Raw) && i < len(v.Raw) && !math.IsNaN(u.Raw[i]) && !math.IsNaN(v.Raw[i]) {
			c.RawDelta = math.Abs(u.Raw[i] - v.Raw[i])
		}
		ex.Contributions[i] = c
		ex.Cosine += c.Value
	}

	ranked := make([]Contribution, n)
	copy(ranked, ex.Contributions)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Value > ranked[b].Value
	})
	if k > n {
		k = n
	}
	if k > 0 {
		ex.Top = append(ex.Top, ranked[:k]...)
		bottom := make([]Contribution, k)
		copy(bottom, ranked[n-k:])
		// Bottom list reads worst-first.
		for i, j := 0, len(bottom)-1; i < j; i, j = i+1, j-1 {
			bottom[i], bottom[j] = bottom[j], bottom[i]
		}
		ex.Bottom = bottom
	}
	return ex, nil
}

// Cosine returns the scalar cosine similarity of two same-version
// vectors.
func Cosine(u, v *FeatureVector) (float64, error) {
	ex, err := Explain(u, v, 0)
	if err != nil {
		return 0, err
	}
	return ex.Cosine, nil
}

func norm(vals []float64) float64 {
	var ss float64
	for _, v := range vals {
		ss += v * v
	}
	return math.Sqrt(ss)
}
