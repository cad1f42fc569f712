// Package lch provides perceptual color parsing and comparison for
// design-token extraction. Colors are represented in LCh (Lightness,
// Chroma, Hue), derived from CIE Lab, because chroma is the axis that
// separates neutral grays from tinted and brand colors.
//
// All functions are pure. Parse failures are reported through the ok
// return, never swallowed.
package lch

import (
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Sample is a parsed color in LCh space.
//
// L is lightness in [0,100], C is chroma in [0,~150], H is hue in
// [0,360). Alpha is carried through from the source string so callers
// can discard fully transparent declarations. Hex is the resolved
// lowercase #rrggbb form, used as the canonical accumulation key.
type Sample struct {
	L     float64
	C     float64
	H     float64
	Alpha float64
	Hex   string
}

// Tier is the perceptual palette tier of a color.
type Tier int

const (
	TierFoundation Tier = iota // neutrals: near-gray, near-black, near-white
	TierTinted                 // subtly colored surfaces
	TierAccent                 // clearly colored, below brand vividness
	TierBrand                  // high-chroma identity colors
)

func (t Tier) String() string {
	switch t {
	case TierFoundation:
		return "foundation"
	case TierTinted:
		return "tinted"
	case TierAccent:
		return "accent"
	case TierBrand:
		return "brand"
	}
	return "unknown"
}

// Tier classification thresholds. Chroma below ChromaNeutral, or
// lightness outside the LightnessFloor/Ceiling window, reads as a
// neutral regardless of hue.
const (
	ChromaNeutral    = 5.0
	ChromaBrand      = 50.0
	ChromaAccent     = 20.0
	LightnessFloor   = 5.0
	LightnessCeiling = 95.0
)

// ClassifyTier maps a (chroma, lightness) pair to exactly one tier.
// Total over all float inputs.
func ClassifyTier(chroma, lightness float64) Tier {
	if chroma < ChromaNeutral || lightness < LightnessFloor || lightness > LightnessCeiling {
		return TierFoundation
	}
	if chroma > ChromaBrand {
		return TierBrand
	}
	if chroma > ChromaAccent {
		return TierAccent
	}
	return TierTinted
}

// Tier returns the palette tier of the sample.
func (s Sample) Tier() Tier {
	return ClassifyTier(s.C, s.L)
}

// Distance is the perceptual distance between two samples: Euclidean
// distance in CIE Lab, scaled so that black↔white is 100. Symmetric,
// and zero iff both samples resolve to the same color.
func Distance(a, b Sample) float64 {
	ca := labColor(a)
	cb := labColor(b)
	return ca.DistanceLab(cb) * 100
}

func labColor(s Sample) colorful.Color {
	// go-colorful works with L in [0,1].
	return colorful.Lab(labFromLCh(s))
}

func labFromLCh(s Sample) (l, a, b float64) {
	h := s.H * math.Pi / 180
	l = s.L / 100
	a = s.C / 100 * math.Cos(h)
	b = s.C / 100 * math.Sin(h)
	return
}

// Parse parses a CSS color string into a Sample. Supported forms:
// #rgb, #rrggbb, #rrggbbaa, rgb()/rgba() (comma or space syntax,
// integer or percentage channels), hsl()/hsla(), named CSS colors and
// the transparent keyword. Returns ok=false for anything else.
func Parse(raw string) (Sample, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "none" || s == "currentcolor" || s == "inherit" || s == "initial" || s == "unset" {
		return Sample{}, false
	}
	if s == "transparent" {
		return Sample{Alpha: 0, Hex: "#000000"}, true
	}

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	case strings.HasPrefix(s, "hsl"):
		return parseHSLFunc(s)
	}

	if hex, ok := namedColors[s]; ok {
		return parseHex(hex)
	}
	return Sample{}, false
}

func parseHex(s string) (Sample, bool) {
	alpha := 1.0
	if len(s) == 9 { // #rrggbbaa
		a, err := strconv.ParseUint(s[7:9], 16, 8)
		if err != nil {
			return Sample{}, false
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Sample{}, false
	}
	return fromColor(c, alpha), true
}

// parseRGBFunc handles rgb(255, 0, 0), rgba(0,0,0,0.5) and the modern
// rgb(255 0 0 / 50%) slash syntax that computed styles occasionally use.
func parseRGBFunc(s string) (Sample, bool) {
	args, ok := funcArgs(s)
	if !ok || len(args) < 3 || len(args) > 4 {
		return Sample{}, false
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, ok := parseChannel(args[i], 255)
		if !ok {
			return Sample{}, false
		}
		ch[i] = clamp01(v)
	}
	alpha := 1.0
	if len(args) == 4 {
		a, ok := parseChannel(args[3], 1)
		if !ok {
			return Sample{}, false
		}
		alpha = clamp01(a)
	}
	return fromColor(colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, alpha), true
}

func parseHSLFunc(s string) (Sample, bool) {
	args, ok := funcArgs(s)
	if !ok || len(args) < 3 || len(args) > 4 {
		return Sample{}, false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return Sample{}, false
	}
	sat, ok := parsePercent(args[1])
	if !ok {
		return Sample{}, false
	}
	lig, ok := parsePercent(args[2])
	if !ok {
		return Sample{}, false
	}
	alpha := 1.0
	if len(args) == 4 {
		a, ok := parseChannel(args[3], 1)
		if !ok {
			return Sample{}, false
		}
		alpha = clamp01(a)
	}
	h = math.Mod(math.Mod(h, 360)+360, 360)
	return fromColor(colorful.Hsl(h, sat, lig), alpha), true
}

// funcArgs extracts the argument list of a color function, tolerating
// comma-separated, space-separated and "a b c / d" forms.
func funcArgs(s string) ([]string, bool) {
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return nil, false
	}
	inner := s[open+1 : end]
	inner = strings.ReplaceAll(inner, "/", " ")
	inner = strings.ReplaceAll(inner, ",", " ")
	args := strings.Fields(inner)
	if len(args) == 0 {
		return nil, false
	}
	return args, true
}

// parseChannel parses one numeric channel, treating "NN%" as a fraction
// and plain numbers as out of the given full-scale value.
func parseChannel(s string, scale float64) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return p / 100, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v / scale, true
}

func parsePercent(s string) (float64, bool) {
	p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return clamp01(p / 100), true
}

func fromColor(c colorful.Color, alpha float64) Sample {
	c = c.Clamped()
	l, a, b := c.Lab()
	chroma := math.Sqrt(a*a+b*b) * 100
	hue := math.Atan2(b, a) * 180 / math.Pi
	if hue < 0 {
		hue += 360
	}
	if chroma < 1e-9 {
		hue = 0
	}
	return Sample{
		L:     l * 100,
		C:     chroma,
		H:     hue,
		Alpha: alpha,
		Hex:   c.Hex(),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
