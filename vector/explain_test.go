package vector

import (
	"errors"
	"math"
	"testing"
)

func vec(version string, vals ...float64) *FeatureVector {
	names := make([]string, len(vals))
	raw := make([]float64, len(vals))
	for i := range vals {
		names[i] = "f" + string(rune('a'+i))
		raw[i] = vals[i] * 10
	}
	return &FeatureVector{Version: version, FeatureNames: names, Values: vals, Raw: raw}
}

func TestExplain_SumEqualsCosine(t *testing.T) {
	u := vec("v1", 0.9, 0.1, 0.5, 0.7)
	v := vec("v1", 0.2, 0.8, 0.5, 0.6)

	ex, err := Explain(u, v, 2)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, c := range ex.Contributions {
		sum += c.Value
	}
	if math.Abs(sum-ex.Cosine) > 1e-12 {
		t.Errorf("contributions sum %v != cosine %v", sum, ex.Cosine)
	}
	if ex.Cosine < -1-1e-12 || ex.Cosine > 1+1e-12 {
		t.Errorf("cosine out of range: %v", ex.Cosine)
	}
}

func TestExplain_SelfSimilarity(t *testing.T) {
	// For a uniform vector compared with itself, every dimension carries
	// exactly 1/N of the similarity.
	u := vec("v1", 0.5, 0.5, 0.5, 0.5)
	ex, err := Explain(u, u, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ex.Cosine-1) > 1e-12 {
		t.Errorf("self cosine: got %v", ex.Cosine)
	}
	for _, c := range ex.Contributions {
		if math.Abs(c.Value-0.25) > 1e-12 {
			t.Errorf("dimension %d: got %v, want 0.25", c.Index, c.Value)
		}
		if c.RawDelta != 0 {
			t.Errorf("self raw delta: got %v", c.RawDelta)
		}
	}

	// For a non-uniform vector the split is uneven: each dimension
	// carries the square of its unit-vector component, still summing
	// to the full similarity.
	w := vec("v1", 0.8, 0.6, 0)
	ex, err = Explain(w, w, 0)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	want := []float64{0.64, 0.36, 0}
	for _, c := range ex.Contributions {
		sum += c.Value
		if math.Abs(c.Value-want[c.Index]) > 1e-12 {
			t.Errorf("dimension %d: got %v, want %v", c.Index, c.Value, want[c.Index])
		}
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("contributions sum %v, want 1", sum)
	}
}

func TestExplain_TopBottom(t *testing.T) {
	u := vec("v1", 0.9, 0.1, 0.5, 0.7)
	v := vec("v1", 0.9, 0.9, 0.5, 0.7)
	ex, err := Explain(u, v, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(ex.Top) != 2 || len(ex.Bottom) != 2 {
		t.Fatalf("top %d, bottom %d", len(ex.Top), len(ex.Bottom))
	}
	if ex.Top[0].Value < ex.Top[1].Value {
		t.Error("top must be best-first")
	}
	if ex.Bottom[0].Value > ex.Bottom[1].Value {
		t.Error("bottom must be worst-first")
	}
	if ex.Top[0].Name == "" {
		t.Error("contributions must carry feature names")
	}
}

func TestExplain_KLargerThanN(t *testing.T) {
	u := vec("v1", 0.5, 0.6)
	ex, err := Explain(u, u, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ex.Top) != 2 || len(ex.Bottom) != 2 {
		t.Errorf("k clamp: top %d, bottom %d", len(ex.Top), len(ex.Bottom))
	}
}

func TestExplain_VersionMismatch(t *testing.T) {
	u := vec("v1", 0.5, 0.5)
	v := vec("v2", 0.5, 0.5)
	_, err := Explain(u, v, 0)
	var mismatch *VersionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("want VersionMismatchError, got %v", err)
	}
	if mismatch.A != "v1" || mismatch.B != "v2" {
		t.Errorf("versions: %q vs %q", mismatch.A, mismatch.B)
	}
}

func TestExplain_DegenerateInputs(t *testing.T) {
	if _, err := Explain(vec("v1", 0.5, 0.5), vec("v1", 0.5), 0); err == nil {
		t.Error("dimension mismatch must error")
	}
	if _, err := Explain(vec("v1"), vec("v1"), 0); err == nil {
		t.Error("empty vectors must error")
	}
	if _, err := Explain(vec("v1", 0, 0), vec("v1", 0.5, 0.5), 0); err == nil {
		t.Error("zero-magnitude vector must error")
	}
}

func TestExplain_RawDeltaNaN(t *testing.T) {
	u := vec("v1", 0.5, 0.5)
	v := vec("v1", 0.5, 0.5)
	u.Raw[1] = math.NaN() // fallback slot on one side

	ex, err := Explain(u, v, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(ex.Contributions[0].RawDelta) {
		t.Error("dimension 0 has raw values on both sides")
	}
	if !math.IsNaN(ex.Contributions[1].RawDelta) {
		t.Error("dimension 1 must report NaN raw delta")
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	got, err := Cosine(vec("v1", 1, 0), vec("v1", 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got) > 1e-12 {
		t.Errorf("orthogonal cosine: got %v", got)
	}
}
