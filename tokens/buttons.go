package tokens

import (
	"sort"
	"strings"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/lch"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/snapshot"
)

// Geometric plausibility window for clickable controls.
const (
	buttonMinArea    = 100.0   // px², anything smaller is an icon or artifact
	buttonMaxArea    = 10000.0 // px², anything larger is a panel
	buttonMaxAspect  = 10.0
	buttonMinPadding = 8.0
)

// ButtonPredicate is one named detection rule. Predicates are evaluated
// in declaration order; the first match wins and its name is recorded
// so detection decisions stay individually testable.
type ButtonPredicate struct {
	Name  string
	Match func(e *snapshot.ElementRecord) bool
}

// ButtonPredicates is the ordered rule list. A candidate must also pass
// plausibleControl before it counts as a button.
var ButtonPredicates = []ButtonPredicate{
	{
		// Explicit semantics: the author told us it is a button.
		Name: "semantic-control",
		Match: func(e *snapshot.ElementRecord) bool {
			if strings.EqualFold(e.Tag, "button") || strings.EqualFold(e.Role, "button") {
				return true
			}
			cls := strings.ToLower(e.ClassName)
			return strings.Contains(cls, "btn") || strings.Contains(cls, "button") || strings.Contains(cls, "cta")
		},
	},
	{
		// Anchors styled like controls: painted background, or a real
		// border with rounded corners, or generous padding.
		Name: "styled-anchor",
		Match: func(e *snapshot.ElementRecord) bool {
			if !strings.EqualFold(e.Tag, "a") {
				return false
			}
			if s, ok := lch.Parse(e.Style(snapshot.PropBackgroundColor)); ok && s.Alpha >= 1 {
				return true
			}
			border, ok := snapshot.ParseBorder(e.Style(snapshot.PropBorder))
			if ok && border.Visible() {
				for _, r := range snapshot.ParseLengthList(e.Style(snapshot.PropBorderRadius)) {
					if r > 0 {
						return true
					}
				}
			}
			if top, right, bottom, left, ok := snapshot.ParseEdges(e.Style(snapshot.PropPadding)); ok {
				if top >= buttonMinPadding || right >= buttonMinPadding || bottom >= buttonMinPadding || left >= buttonMinPadding {
					return true
				}
			}
			return false
		},
	},
}

// plausibleControl rejects candidates whose geometry or content cannot
// be a real clickable control.
func plausibleControl(e *snapshot.ElementRecord) bool {
	area := e.BBox.Area()
	if area < buttonMinArea || area > buttonMaxArea {
		return false
	}
	w, h := e.BBox.W, e.BBox.H
	if w <= 0 || h <= 0 {
		return false
	}
	aspect := w / h
	if aspect < 1 {
		aspect = h / w
	}
	if aspect > buttonMaxAspect {
		return false
	}
	return e.TrimmedText() != ""
}

// ButtonMatch records one detected button.
type ButtonMatch struct {
	Predicate  string
	Background string // resolved hex, "" when transparent or unparsable
	Area       float64
}

// DetectButtons runs the predicate list over every element.
func DetectButtons(elems []snapshot.ElementRecord) []ButtonMatch {
	var out []ButtonMatch
	for i := range elems {
		e := &elems[i]
		if !plausibleControl(e) {
			continue
		}
		for _, p := range ButtonPredicates {
			if !p.Match(e) {
				continue
			}
			m := ButtonMatch{Predicate: p.Name, Area: e.BBox.Area()}
			if s, ok := lch.Parse(e.Style(snapshot.PropBackgroundColor)); ok && s.Alpha > 0 {
				m.Background = s.Hex
			}
			out = append(out, m)
			break
		}
	}
	return out
}

// ctaColor picks the most frequent valid button background, excluding
// transparent declarations and colors already claimed by the text or
// page background roles. Ties break on accumulated area, then hex.
func ctaColor(buttons []ButtonMatch, textHex, bgHex string) string {
	count := make(map[string]int)
	area := make(map[string]float64)
	for _, b := range buttons {
		if b.Background == "" || b.Background == textHex || b.Background == bgHex {
			continue
		}
		count[b.Background]++
		area[b.Background] += b.Area
	}
	hexes := make([]string, 0, len(count))
	for hex := range count {
		hexes = append(hexes, hex)
	}
	sort.Strings(hexes)

	best := ""
	for _, hex := range hexes {
		if best == "" {
			best = hex
			continue
		}
		if count[hex] > count[best] || (count[hex] == count[best] && area[hex] > area[best]) {
			best = hex
		}
	}
	return best
}
