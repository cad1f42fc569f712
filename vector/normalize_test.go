package vector

import (
	"errors"
	"math"
	"testing"
)

func almost(t *testing.T, got, want, tol float64, name string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %v, want %v (±%v)", name, got, want, tol)
	}
}

func TestAbsolute(t *testing.T) {
	s := Strategy{Kind: Absolute, Min: -1, Max: 1}
	almost(t, s.Apply(0.42), 0.42, 1e-12, "pass-through")
	almost(t, s.Apply(-5), -1, 1e-12, "low clamp")
	almost(t, s.Apply(5), 1, 1e-12, "high clamp")
}

func TestLinear(t *testing.T) {
	s := Strategy{Kind: Linear, Min: 0, Max: 80}
	almost(t, s.Apply(0), 0, 1e-12, "low endpoint")
	almost(t, s.Apply(80), 1, 1e-12, "high endpoint")
	almost(t, s.Apply(40), 0.5, 1e-12, "midpoint")
	almost(t, s.Apply(-10), 0, 1e-12, "below range")
	almost(t, s.Apply(500), 1, 1e-12, "above range")
	if s.Apply(20) >= s.Apply(60) {
		t.Error("linear must be monotonic in range")
	}
}

func TestLog(t *testing.T) {
	s := Strategy{Kind: Log, Midpoint: 1.2}
	almost(t, s.Apply(1.2), 0.5, 1e-12, "midpoint lands on 0.5")
	almost(t, s.Apply(3*1.2), 1, 1e-12, "saturation at 3×midpoint")
	almost(t, s.Apply(0), 0, 1e-12, "zero")
	almost(t, s.Apply(-1), 0, 1e-12, "negative")
	if s.Apply(100) != 1 {
		t.Error("beyond saturation must clamp")
	}
	if s.Apply(0.3) >= s.Apply(0.9) {
		t.Error("log must be monotonic below saturation")
	}
}

func TestPiecewise(t *testing.T) {
	s := Strategy{Kind: Piecewise, Points: []Point{
		{X: 0, Y: 0}, {X: 0.2, Y: 0.3}, {X: 0.5, Y: 0.8}, {X: 1, Y: 1},
	}}
	almost(t, s.Apply(0), 0, 1e-12, "first knot")
	almost(t, s.Apply(0.2), 0.3, 1e-12, "interior knot")
	almost(t, s.Apply(1), 1, 1e-12, "last knot")
	almost(t, s.Apply(0.35), 0.55, 1e-12, "interpolated midpoint")
	almost(t, s.Apply(-3), 0, 1e-12, "below first knot")
	almost(t, s.Apply(7), 1, 1e-12, "above last knot")
}

func TestSigmoid(t *testing.T) {
	s := Strategy{Kind: Sigmoid, K: 6, Mid: 0.5}
	almost(t, s.Apply(0.5), 0.5, 1e-12, "mid")
	if s.Apply(0.9) <= 0.5 || s.Apply(0.1) >= 0.5 {
		t.Error("sigmoid orientation")
	}
	if v := s.Apply(100); v <= 0.99 || v > 1 {
		t.Errorf("upper saturation: got %v", v)
	}
	if v := s.Apply(-100); v < 0 || v >= 0.01 {
		t.Errorf("lower saturation: got %v", v)
	}
}

func TestZScore(t *testing.T) {
	s := Strategy{Kind: ZScore, Mean: 10, Std: 2}
	almost(t, s.Apply(10), 0, 1e-12, "mean maps to 0")
	almost(t, s.Apply(14), 2, 1e-12, "two sigma")
	almost(t, s.Apply(100), ZClamp, 1e-12, "outlier clamps high")
	almost(t, s.Apply(-100), -ZClamp, 1e-12, "outlier clamps low")
}

func TestLogZScore(t *testing.T) {
	s := Strategy{Kind: LogZScore, Mean: 1.05, Std: 0.62}
	// x with ln(1+x) == mean maps to 0.
	x := math.Expm1(1.05)
	almost(t, s.Apply(x), 0, 1e-9, "population mean")
	if s.Apply(0.1) >= 0 {
		t.Error("below-mean value must map negative")
	}
	if v := s.Apply(1e9); v != ZClamp {
		t.Errorf("outlier clamp: got %v", v)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		s    Strategy
		ok   bool
	}{
		{"linear ok", Strategy{Kind: Linear, Min: 0, Max: 1}, true},
		{"linear inverted bounds", Strategy{Kind: Linear, Min: 1, Max: 0}, false},
		{"linear equal bounds", Strategy{Kind: Linear, Min: 1, Max: 1}, false},
		{"log ok", Strategy{Kind: Log, Midpoint: 0.5}, true},
		{"log zero midpoint", Strategy{Kind: Log}, false},
		{"sigmoid ok", Strategy{Kind: Sigmoid, K: 6, Mid: 0.5}, true},
		{"sigmoid zero k", Strategy{Kind: Sigmoid, Mid: 0.5}, false},
		{"piecewise ok", Strategy{Kind: Piecewise, Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}, true},
		{"piecewise one point", Strategy{Kind: Piecewise, Points: []Point{{X: 0, Y: 0}}}, false},
		{"piecewise non-increasing", Strategy{Kind: Piecewise, Points: []Point{{X: 1, Y: 0}, {X: 1, Y: 1}}}, false},
		{"zscore ok", Strategy{Kind: ZScore, Mean: 0, Std: 1}, true},
		{"zscore zero std", Strategy{Kind: ZScore, Mean: 0}, false},
		{"unknown kind", Strategy{Kind: "quantile"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.s.Validate("f")
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				var cfgErr *ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("want ConfigurationError, got %v", err)
				}
				if cfgErr.Feature != "f" {
					t.Errorf("feature: got %q", cfgErr.Feature)
				}
			}
		})
	}
}

func TestDefaultFallback(t *testing.T) {
	cases := []struct {
		s    Strategy
		want float64
	}{
		{Strategy{Kind: Absolute, Min: -1, Max: 1}, 0},
		{Strategy{Kind: Linear, Min: 0, Max: 80}, 0.5},
		{Strategy{Kind: Log, Midpoint: 1}, 0.5},
		{Strategy{Kind: ZScore, Mean: 5, Std: 1}, 0},
		{Strategy{Kind: LogZScore, Mean: 1, Std: 1}, 0},
	}
	for _, tc := range cases {
		if got := tc.s.DefaultFallback(); got != tc.want {
			t.Errorf("%s fallback: got %v, want %v", tc.s.Kind, got, tc.want)
		}
	}
}

func TestRange(t *testing.T) {
	if lo, hi := (Strategy{Kind: Absolute, Min: -1, Max: 1}).Range(); lo != -1 || hi != 1 {
		t.Errorf("absolute range: [%v, %v]", lo, hi)
	}
	if lo, hi := (Strategy{Kind: ZScore, Mean: 0, Std: 1}).Range(); lo != -ZClamp || hi != ZClamp {
		t.Errorf("zscore range: [%v, %v]", lo, hi)
	}
	if lo, hi := (Strategy{Kind: Linear, Min: 0, Max: 80}).Range(); lo != 0 || hi != 1 {
		t.Errorf("linear range: [%v, %v]", lo, hi)
	}
}
