// Package vector owns the versioned feature-vector contract: the
// normalization strategies, the ordered schema, vector assembly, blob
// encoding and cosine-similarity explanation.
package vector

import (
	"fmt"
	"math"
)

// StrategyKind names one normalization strategy class.
type StrategyKind string

const (
	// Absolute passes the raw value through untouched, only saturating
	// at the declared bounds. For metrics that are bounded by
	// construction, e.g. trigonometric hue components.
	Absolute StrategyKind = "absolute"
	// Linear clamp-normalizes [Min,Max] onto [0,1].
	Linear StrategyKind = "linear"
	// Log is a compressive map for right-skewed ratios; Midpoint lands
	// on 0.5 and saturation is reached at 3×Midpoint.
	Log StrategyKind = "log"
	// Piecewise interpolates linearly through ≥2 knots with different
	// slopes, for metrics whose informative range is narrow and
	// off-center.
	Piecewise StrategyKind = "piecewise"
	// Sigmoid is an S-curve around Mid with steepness K, keeping
	// mid-range differences visible while saturating only at extremes.
	Sigmoid StrategyKind = "sigmoid"
	// ZScore standardizes against a frozen reference population and
	// clamps to ±ZClamp. The population is versioned with the schema
	// and never recomputed per call.
	ZScore StrategyKind = "zscore"
	// LogZScore is ZScore over ln(1+x), for skewed populations.
	LogZScore StrategyKind = "log-zscore"
)

// ZClamp bounds z-score slots so a single outlier capture cannot
// dominate a distance computation.
const ZClamp = 3.0

// Point is one piecewise knot.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Strategy maps one raw scalar onto one vector slot. Which parameter
// fields apply depends on Kind; Validate enforces that.
type Strategy struct {
	Kind StrategyKind `yaml:"kind" json:"kind"`

	Min float64 `yaml:"min,omitempty" json:"min,omitempty"` // absolute, linear
	Max float64 `yaml:"max,omitempty" json:"max,omitempty"` // absolute, linear

	Midpoint float64 `yaml:"midpoint,omitempty" json:"midpoint,omitempty"` // log

	K   float64 `yaml:"k,omitempty" json:"k,omitempty"`     // sigmoid
	Mid float64 `yaml:"mid,omitempty" json:"mid,omitempty"` // sigmoid

	Points []Point `yaml:"points,omitempty" json:"points,omitempty"` // piecewise

	Mean float64 `yaml:"mean,omitempty" json:"mean,omitempty"` // zscore, log-zscore
	Std  float64 `yaml:"std,omitempty" json:"std,omitempty"`   // zscore, log-zscore
}

// ConfigurationError reports malformed strategy parameters. It is the
// one fatal extraction failure: a vector built from a broken schema
// would be meaningless.
type ConfigurationError struct {
	Feature string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("vector: configuration for %q: %s", e.Feature, e.Reason)
}

// Validate checks the parameters for the strategy's kind.
func (s Strategy) Validate(feature string) error {
	fail := func(reason string) error {
		return &ConfigurationError{Feature: feature, Reason: reason}
	}
	switch s.Kind {
	case Absolute, Linear:
		if s.Max <= s.Min {
			return fail(fmt.Sprintf("max %g <= min %g", s.Max, s.Min))
		}
	case Log:
		if s.Midpoint <= 0 {
			return fail(fmt.Sprintf("midpoint %g must be positive", s.Midpoint))
		}
	case Sigmoid:
		if s.K <= 0 {
			return fail(fmt.Sprintf("k %g must be positive", s.K))
		}
	case Piecewise:
		if len(s.Points) < 2 {
			return fail(fmt.Sprintf("needs at least 2 points, got %d", len(s.Points)))
		}
		for i := 1; i < len(s.Points); i++ {
			if s.Points[i].X <= s.Points[i-1].X {
				return fail(fmt.Sprintf("points must be strictly increasing in x at index %d", i))
			}
		}
	case ZScore, LogZScore:
		if s.Std <= 0 {
			return fail(fmt.Sprintf("std %g must be positive", s.Std))
		}
	default:
		return fail(fmt.Sprintf("unknown strategy kind %q", s.Kind))
	}
	return nil
}

// Apply maps a raw value to its slot value. Callers must have passed
// Validate; Apply is total for validated parameters.
func (s Strategy) Apply(x float64) float64 {
	switch s.Kind {
	case Absolute:
		return clampRange(x, s.Min, s.Max)
	case Linear:
		return clampRange((x-s.Min)/(s.Max-s.Min), 0, 1)
	case Log:
		if x <= 0 {
			return 0
		}
		return clampRange(math.Log1p(x/s.Midpoint)/(2*math.Ln2), 0, 1)
	case Sigmoid:
		return 1 / (1 + math.Exp(-s.K*(x-s.Mid)))
	case Piecewise:
		return s.interpolate(x)
	case ZScore:
		return clampRange((x-s.Mean)/s.Std, -ZClamp, ZClamp)
	case LogZScore:
		lx := math.Log1p(math.Max(x, 0))
		return clampRange((lx-s.Mean)/s.Std, -ZClamp, ZClamp)
	}
	return 0
}

func (s Strategy) interpolate(x float64) float64 {
	pts := s.Points
	if x <= pts[0].X {
		return pts[0].Y
	}
	last := pts[len(pts)-1]
	if x >= last.X {
		return last.Y
	}
	for i := 1; i < len(pts); i++ {
		if x <= pts[i].X {
			span := pts[i].X - pts[i-1].X
			frac := (x - pts[i-1].X) / span
			return pts[i-1].Y + frac*(pts[i].Y-pts[i-1].Y)
		}
	}
	return last.Y
}

// Range returns the declared output bounds of the strategy.
func (s Strategy) Range() (lo, hi float64) {
	switch s.Kind {
	case Absolute:
		return s.Min, s.Max
	case ZScore, LogZScore:
		return -ZClamp, ZClamp
	case Piecewise:
		lo, hi = s.Points[0].Y, s.Points[0].Y
		for _, p := range s.Points[1:] {
			lo = math.Min(lo, p.Y)
			hi = math.Max(hi, p.Y)
		}
		return lo, hi
	}
	return 0, 1
}

// DefaultFallback is the documented slot value used when the raw metric
// is missing: the midpoint of the declared range for bounded
// strategies, zero for standardized ones.
func (s Strategy) DefaultFallback() float64 {
	switch s.Kind {
	case ZScore, LogZScore:
		return 0
	case Absolute:
		return (s.Min + s.Max) / 2
	}
	return 0.5
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
