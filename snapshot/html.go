package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FromHTML builds a Snapshot from a static HTML document with inline
// style attributes. This is a fixture loader for test corpora and
// calibration sets, not a renderer: geometry comes from an explicit
// data-bbox="x,y,w,h" attribute when present, otherwise from a naive
// top-to-bottom flow sized by the viewport. No fetching, no scripts.
func FromHTML(doc string, vp Viewport) (*Snapshot, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("snapshot: parse html: %w", err)
	}
	s := &Snapshot{Viewport: vp}
	flowY := 0.0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && !skipTag(n.DataAtom) {
			rec := recordFromNode(n, vp, &flowY)
			if rec != nil {
				s.Elements = append(s.Elements, *rec)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func skipTag(a atom.Atom) bool {
	switch a {
	case atom.Html, atom.Head, atom.Script, atom.Style, atom.Meta, atom.Link, atom.Title:
		return true
	}
	return false
}

func recordFromNode(n *html.Node, vp Viewport, flowY *float64) *ElementRecord {
	styles := parseInlineStyle(nodeAttr(n, "style"))
	bbox, explicit := parseBBoxAttr(nodeAttr(n, "data-bbox"))
	if !explicit {
		if n.DataAtom == atom.Body {
			bbox = BBox{X: 0, Y: 0, W: vp.Width, H: vp.Height}
		} else {
			// Naive flow: full-width 40px rows stacked downward.
			bbox = BBox{X: 0, Y: *flowY, W: vp.Width, H: 40}
			*flowY += 48
		}
	}
	rec := &ElementRecord{
		Tag:       n.Data,
		ClassName: nodeAttr(n, "class"),
		Role:      nodeAttr(n, "role"),
		BBox:      bbox,
		Styles:    styles,
		Text:      ownText(n),
	}
	return rec
}

// parseInlineStyle splits `color: red; padding: 8px` into a property
// map with lowercase keys.
func parseInlineStyle(style string) map[string]string {
	m := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		idx := strings.IndexByte(decl, ':')
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(decl[:idx]))
		val := strings.TrimSpace(decl[idx+1:])
		if key != "" && val != "" {
			m[key] = val
		}
	}
	return m
}

func parseBBoxAttr(v string) (BBox, bool) {
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return BBox{}, false
	}
	var nums [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, false
		}
		nums[i] = f
	}
	return BBox{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}, true
}

func nodeAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// ownText collects the direct text children of a node, trimmed.
func ownText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}
