// Package snapshot defines the capture input contract: the element
// geometry and computed-style records produced by an external capture
// layer, plus parsers for the raw CSS value strings those records carry.
//
// A Snapshot is produced once per capture and never mutated; every
// downstream stage treats it as read-only.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Style property keys every capture must supply per element.
const (
	PropColor           = "color"
	PropBackgroundColor = "background-color"
	PropBackgroundImage = "background-image"
	PropFontSize        = "font-size"
	PropFontWeight      = "font-weight"
	PropFontFamily      = "font-family"
	PropLineHeight      = "line-height"
	PropMargin          = "margin"
	PropPadding         = "padding"
	PropBorder          = "border"
	PropBorderRadius    = "border-radius"
	PropBoxShadow       = "box-shadow"
)

// BBox is an element bounding box in device pixels.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns w×h, never negative.
func (b BBox) Area() float64 {
	if b.W <= 0 || b.H <= 0 {
		return 0
	}
	return b.W * b.H
}

// Right returns the right edge x coordinate.
func (b BBox) Right() float64 { return b.X + b.W }

// Bottom returns the bottom edge y coordinate.
func (b BBox) Bottom() float64 { return b.Y + b.H }

// CenterX returns the horizontal center.
func (b BBox) CenterX() float64 { return b.X + b.W/2 }

// CenterY returns the vertical center.
func (b BBox) CenterY() float64 { return b.Y + b.H/2 }

// Perimeter returns 2(w+h) for positive extents.
func (b BBox) Perimeter() float64 {
	if b.W <= 0 || b.H <= 0 {
		return 0
	}
	return 2 * (b.W + b.H)
}

// Gap is the Euclidean separation between the closest edges of two
// boxes; zero when they touch or overlap.
func Gap(a, b BBox) float64 {
	dx := axisGap(a.X, a.Right(), b.X, b.Right())
	dy := axisGap(a.Y, a.Bottom(), b.Y, b.Bottom())
	if dx <= 0 && dy <= 0 {
		return 0
	}
	if dx < 0 {
		dx = 0
	}
	if dy < 0 {
		dy = 0
	}
	return math.Hypot(dx, dy)
}

func axisGap(aLo, aHi, bLo, bHi float64) float64 {
	if aHi < bLo {
		return bLo - aHi
	}
	if bHi < aLo {
		return aLo - bHi
	}
	return 0
}

// ElementRecord is one captured element: geometry plus raw computed
// style strings. Tag, class, role and text are hints that improve
// classification but are not required by the contract.
type ElementRecord struct {
	Tag       string            `json:"tag,omitempty"`
	ClassName string            `json:"className,omitempty"`
	Role      string            `json:"role,omitempty"`
	BBox      BBox              `json:"bbox"`
	Styles    map[string]string `json:"styles"`
	Text      string            `json:"textContent,omitempty"`
}

// Style returns the raw style string for a property, or "" when absent.
func (e *ElementRecord) Style(prop string) string {
	if e.Styles == nil {
		return ""
	}
	return strings.TrimSpace(e.Styles[prop])
}

// Visible reports whether the element occupies any on-screen area.
func (e *ElementRecord) Visible() bool {
	return e.BBox.Area() > 0
}

// TrimmedText returns the whitespace-trimmed text content.
func (e *ElementRecord) TrimmedText() string {
	return strings.TrimSpace(e.Text)
}

// IsImage reports whether the element renders pictorial content: an
// img/picture/video/svg/canvas tag, or any non-none background-image.
func (e *ElementRecord) IsImage() bool {
	switch strings.ToLower(e.Tag) {
	case "img", "picture", "video", "svg", "canvas":
		return true
	}
	bg := e.Style(PropBackgroundImage)
	return bg != "" && bg != "none"
}

// Viewport is the capture viewport in device pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns width×height, never negative.
func (v Viewport) Area() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 0
	}
	return v.Width * v.Height
}

// Snapshot is one complete capture: every element record plus the
// viewport they were laid out in.
type Snapshot struct {
	URL      string          `json:"url,omitempty"`
	Viewport Viewport        `json:"viewport"`
	Elements []ElementRecord `json:"elements"`
}

// Validate checks the structural minimum the contract requires.
func (s *Snapshot) Validate() error {
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return fmt.Errorf("snapshot: viewport %gx%g is not positive", s.Viewport.Width, s.Viewport.Height)
	}
	return nil
}

// Sorted returns the elements in a stable canonical order (top-left to
// bottom-right, larger first on ties). Accumulation passes iterate this
// order so extraction stays bit-reproducible regardless of capture
// order.
func (s *Snapshot) Sorted() []ElementRecord {
	out := make([]ElementRecord, len(s.Elements))
	copy(out, s.Elements)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].BBox, out[j].BBox
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Area() > b.Area()
	})
	return out
}

// Decode reads a capture JSON document.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultViewport is the viewport assumed for HTML fixtures that carry
// no capture metadata.
var DefaultViewport = Viewport{Width: 1280, Height: 800}

// Load reads a capture file: JSON captures by default, static HTML
// fixtures (via FromHTML) for .html and .htm paths.
func Load(path string) (*Snapshot, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
		}
		return FromHTML(string(data), DefaultViewport)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
