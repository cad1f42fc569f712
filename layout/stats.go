package layout

import (
	"math"
	"sort"
)

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stdDev is the population standard deviation.
func stdDev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)))
}

// coefficientOfVariation is stdDev/mean, the scale-free dispersion
// measure every consistency metric is built on. Zero mean yields zero.
func coefficientOfVariation(vals []float64) float64 {
	m := mean(vals)
	if m == 0 {
		return 0
	}
	return stdDev(vals) / m
}

// quartiles returns Q1, median and Q3 by linear interpolation over the
// sorted values.
func quartiles(vals []float64) (q1, q2, q3 float64) {
	if len(vals) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return percentile(sorted, 0.25), percentile(sorted, 0.5), percentile(sorted, 0.75)
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// rhythmCurve maps a coefficient of variation to (0,1] through
// 1/(1+(cv/k)²). Unlike a plain inverse it keeps moderate differences
// distinguishable: cv=k maps to 0.5 and the curve flattens only at the
// extremes.
func rhythmCurve(cv, k float64) float64 {
	r := cv / k
	return 1 / (1 + r*r)
}

// logCompress is a compressive map for right-skewed ratios:
// ln(1+x/mid)/(2 ln 2) clamped to [0,1], so x=mid lands on 0.5 and
// saturation is reached at 3×mid.
func logCompress(x, mid float64) float64 {
	if x <= 0 || mid <= 0 {
		return 0
	}
	v := math.Log1p(x/mid) / (2 * math.Ln2)
	if v > 1 {
		return 1
	}
	return v
}
