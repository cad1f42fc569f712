package snapshot

import (
	"math"
	"strings"
	"testing"
)

func TestBBox(t *testing.T) {
	b := BBox{X: 10, Y: 20, W: 100, H: 50}
	if b.Area() != 5000 {
		t.Errorf("area: got %g", b.Area())
	}
	if b.Right() != 110 || b.Bottom() != 70 {
		t.Errorf("edges: right=%g bottom=%g", b.Right(), b.Bottom())
	}
	if b.CenterX() != 60 || b.CenterY() != 45 {
		t.Errorf("center: %g,%g", b.CenterX(), b.CenterY())
	}
	if b.Perimeter() != 300 {
		t.Errorf("perimeter: got %g", b.Perimeter())
	}
	if (BBox{W: -5, H: 10}).Area() != 0 {
		t.Error("negative extent should have zero area")
	}
}

func TestGap(t *testing.T) {
	a := BBox{X: 0, Y: 0, W: 10, H: 10}

	cases := []struct {
		name string
		b    BBox
		want float64
	}{
		{"overlap", BBox{X: 5, Y: 5, W: 10, H: 10}, 0},
		{"touching", BBox{X: 10, Y: 0, W: 10, H: 10}, 0},
		{"horizontal", BBox{X: 15, Y: 0, W: 10, H: 10}, 5},
		{"vertical", BBox{X: 0, Y: 18, W: 10, H: 10}, 8},
		{"diagonal", BBox{X: 13, Y: 14, W: 10, H: 10}, 5}, // 3-4-5
	}
	for _, tc := range cases {
		if got := Gap(a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: Gap = %g, want %g", tc.name, got, tc.want)
		}
		if got, rev := Gap(a, tc.b), Gap(tc.b, a); got != rev {
			t.Errorf("%s: Gap not symmetric: %g vs %g", tc.name, got, rev)
		}
	}
}

func TestSnapshot_Sorted(t *testing.T) {
	snap := &Snapshot{
		Viewport: Viewport{Width: 800, Height: 600},
		Elements: []ElementRecord{
			{Tag: "c", BBox: BBox{X: 0, Y: 100, W: 10, H: 10}},
			{Tag: "a", BBox: BBox{X: 0, Y: 0, W: 10, H: 10}},
			{Tag: "b", BBox: BBox{X: 50, Y: 0, W: 10, H: 10}},
		},
	}
	got := snap.Sorted()
	order := []string{got[0].Tag, got[1].Tag, got[2].Tag}
	want := []string{"a", "b", "c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order: got %v, want %v", order, want)
		}
	}
	// Input must stay untouched.
	if snap.Elements[0].Tag != "c" {
		t.Error("Sorted mutated the snapshot")
	}
}

func TestDecode(t *testing.T) {
	doc := `{
		"url": "https://example.com",
		"viewport": {"width": 1280, "height": 720},
		"elements": [
			{"tag": "body", "bbox": {"x":0,"y":0,"w":1280,"h":2400},
			 "styles": {"background-color": "rgb(255, 255, 255)"}}
		]
	}`
	snap, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Elements) != 1 || snap.Viewport.Width != 1280 {
		t.Errorf("got %+v", snap)
	}
	if snap.Elements[0].Style(PropBackgroundColor) != "rgb(255, 255, 255)" {
		t.Errorf("style lookup: got %q", snap.Elements[0].Style(PropBackgroundColor))
	}
}

func TestDecode_BadViewport(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"viewport":{"width":0,"height":600},"elements":[]}`)); err == nil {
		t.Fatal("zero-width viewport should fail validation")
	}
}

func TestElementRecord_IsImage(t *testing.T) {
	img := ElementRecord{Tag: "img"}
	if !img.IsImage() {
		t.Error("img tag should be an image")
	}
	bg := ElementRecord{Tag: "div", Styles: map[string]string{PropBackgroundImage: `url("hero.jpg")`}}
	if !bg.IsImage() {
		t.Error("background-image should count as an image")
	}
	plain := ElementRecord{Tag: "div", Styles: map[string]string{PropBackgroundImage: "none"}}
	if plain.IsImage() {
		t.Error("background-image none is not an image")
	}
}

func TestFromHTML(t *testing.T) {
	doc := `<html><head><title>x</title></head><body style="background-color: #fafafa">
		<div class="card" data-bbox="100,100,200,120" style="padding: 16px; background-color: rgb(255,255,255)">Card</div>
		<a role="button" data-bbox="120,180,120,40" style="background-color: #6366f1; color: #ffffff">Sign up</a>
	</body></html>`
	snap, err := FromHTML(doc, Viewport{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	var card, cta *ElementRecord
	for i := range snap.Elements {
		switch snap.Elements[i].ClassName {
		case "card":
			card = &snap.Elements[i]
		}
		if snap.Elements[i].Role == "button" {
			cta = &snap.Elements[i]
		}
	}
	if card == nil || cta == nil {
		t.Fatalf("expected card and button, got %d elements", len(snap.Elements))
	}
	if card.BBox != (BBox{X: 100, Y: 100, W: 200, H: 120}) {
		t.Errorf("card bbox: got %+v", card.BBox)
	}
	if card.Style(PropPadding) != "16px" {
		t.Errorf("card padding: got %q", card.Style(PropPadding))
	}
	if cta.TrimmedText() != "Sign up" {
		t.Errorf("cta text: got %q", cta.TrimmedText())
	}
	// head content is skipped
	for _, e := range snap.Elements {
		if e.Tag == "title" || e.Tag == "head" {
			t.Errorf("should skip %s", e.Tag)
		}
	}
}
