package snapshot

import (
	"strconv"
	"strings"
)

// ParseLength parses a single pixel length ("12px", "12.5px", "0").
// Computed styles resolve relative units before capture, so anything
// other than px (or a bare zero) is a parse failure.
func ParseLength(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" || s == "auto" || s == "normal" || s == "none" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if !strings.HasSuffix(s, "px") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseLengthList parses a shorthand like "8px 16px" or
// "1px 2px 3px 4px" into its individual pixel values. Unparsable
// components are skipped rather than failing the whole list.
func ParseLengthList(raw string) []float64 {
	var out []float64
	for _, part := range strings.Fields(raw) {
		if v, ok := ParseLength(part); ok {
			out = append(out, v)
		}
	}
	return out
}

// ParseEdges expands the CSS 1/2/3/4-value shorthand into
// top/right/bottom/left pixel values.
func ParseEdges(raw string) (top, right, bottom, left float64, ok bool) {
	vals := ParseLengthList(raw)
	switch len(vals) {
	case 1:
		return vals[0], vals[0], vals[0], vals[0], true
	case 2:
		return vals[0], vals[1], vals[0], vals[1], true
	case 3:
		return vals[0], vals[1], vals[2], vals[1], true
	case 4:
		return vals[0], vals[1], vals[2], vals[3], true
	}
	return 0, 0, 0, 0, false
}

// Border is a parsed border shorthand.
type Border struct {
	Width float64
	Style string
	Color string
}

// Visible reports whether the border actually paints.
func (b Border) Visible() bool {
	return b.Width > 0 && b.Style != "" && b.Style != "none" && b.Style != "hidden"
}

// ParseBorder parses "1px solid rgb(229, 231, 235)" style shorthands.
// The color part, if present, is returned raw for the caller to parse.
func ParseBorder(raw string) (Border, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "none" {
		return Border{}, false
	}
	var b Border
	rest := s
	for rest != "" {
		tok, tail := nextBorderToken(rest)
		rest = tail
		switch {
		case tok == "":
			continue
		case strings.HasSuffix(tok, "px"):
			if w, ok := ParseLength(tok); ok {
				b.Width = w
			}
		case isBorderStyle(tok):
			b.Style = strings.ToLower(tok)
		default:
			b.Color = tok
		}
	}
	if b.Width == 0 && b.Style == "" && b.Color == "" {
		return Border{}, false
	}
	return b, true
}

// nextBorderToken splits on spaces but keeps function notation like
// rgb(1, 2, 3) together.
func nextBorderToken(s string) (tok, rest string) {
	s = strings.TrimLeft(s, " ")
	if s == "" {
		return "", ""
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ' ':
			if depth == 0 {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}

func isBorderStyle(tok string) bool {
	switch strings.ToLower(tok) {
	case "solid", "dashed", "dotted", "double", "groove", "ridge", "inset", "outset", "none", "hidden":
		return true
	}
	return false
}

// Shadow is one parsed box-shadow layer.
type Shadow struct {
	OffsetX float64
	OffsetY float64
	Blur    float64
	Spread  float64
	Color   string
	Inset   bool
}

// ParseShadows parses a box-shadow declaration into its layers.
// Handles both argument orders browsers emit: color-first
// ("rgba(0,0,0,.1) 0px 4px 12px") and length-first
// ("0px 4px 12px rgba(0,0,0,.1)"). Unparsable layers are skipped.
func ParseShadows(raw string) []Shadow {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "none") {
		return nil
	}
	var out []Shadow
	for _, layer := range splitShadowLayers(s) {
		if sh, ok := parseShadowLayer(layer); ok {
			out = append(out, sh)
		}
	}
	return out
}

// splitShadowLayers splits on commas that are outside parentheses.
func splitShadowLayers(s string) []string {
	var layers []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				layers = append(layers, s[start:i])
				start = i + 1
			}
		}
	}
	layers = append(layers, s[start:])
	return layers
}

func parseShadowLayer(layer string) (Shadow, bool) {
	var sh Shadow
	var lengths []float64
	rest := strings.TrimSpace(layer)
	for rest != "" {
		tok, tail := nextBorderToken(rest)
		rest = tail
		switch {
		case tok == "":
			continue
		case strings.EqualFold(tok, "inset"):
			sh.Inset = true
		case strings.HasSuffix(tok, "px") || tok == "0":
			if v, ok := ParseLength(tok); ok {
				lengths = append(lengths, v)
			}
		default:
			sh.Color = tok
		}
	}
	if len(lengths) < 2 {
		return Shadow{}, false
	}
	sh.OffsetX = lengths[0]
	sh.OffsetY = lengths[1]
	if len(lengths) > 2 {
		sh.Blur = lengths[2]
	}
	if len(lengths) > 3 {
		sh.Spread = lengths[3]
	}
	return sh, true
}

// ParseFontWeight parses numeric and keyword font weights.
func ParseFontWeight(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "":
		return 0, false
	case "normal":
		return 400, true
	case "bold":
		return 700, true
	case "lighter":
		return 300, true
	case "bolder":
		return 600, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 1 || v > 1000 {
		return 0, false
	}
	return v, true
}

// ParseLineHeight parses a computed line-height: a px length, or a bare
// multiplier which is resolved against the given font size.
func ParseLineHeight(raw string, fontSize float64) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "normal" {
		return 0, false
	}
	if v, ok := ParseLength(s); ok {
		return v, true
	}
	mult, err := strconv.ParseFloat(s, 64)
	if err != nil || mult <= 0 {
		return 0, false
	}
	if fontSize <= 0 {
		return 0, false
	}
	return mult * fontSize, true
}

// PrimaryFontFamily returns the first family in a font-family list,
// unquoted and lowercased.
func PrimaryFontFamily(raw string) string {
	first := raw
	if idx := strings.IndexByte(raw, ','); idx >= 0 {
		first = raw[:idx]
	}
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	return strings.ToLower(first)
}
