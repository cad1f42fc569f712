package lch

// namedColors covers the CSS color keywords that show up in computed
// styles in practice. Browsers normally resolve keywords to rgb() before
// we ever see them, so this table is a fallback for hand-written
// fixtures and author-supplied style maps.
var namedColors = map[string]string{
	"black":         "#000000",
	"white":         "#ffffff",
	"red":           "#ff0000",
	"green":         "#008000",
	"blue":          "#0000ff",
	"yellow":        "#ffff00",
	"cyan":          "#00ffff",
	"aqua":          "#00ffff",
	"magenta":       "#ff00ff",
	"fuchsia":       "#ff00ff",
	"gray":          "#808080",
	"grey":          "#808080",
	"silver":        "#c0c0c0",
	"maroon":        "#800000",
	"olive":         "#808000",
	"lime":          "#00ff00",
	"teal":          "#008080",
	"navy":          "#000080",
	"purple":        "#800080",
	"orange":        "#ffa500",
	"pink":          "#ffc0cb",
	"brown":         "#a52a2a",
	"gold":          "#ffd700",
	"beige":         "#f5f5dc",
	"ivory":         "#fffff0",
	"coral":         "#ff7f50",
	"salmon":        "#fa8072",
	"khaki":         "#f0e68c",
	"indigo":        "#4b0082",
	"violet":        "#ee82ee",
	"plum":          "#dda0dd",
	"orchid":        "#da70d6",
	"tan":           "#d2b48c",
	"chocolate":     "#d2691e",
	"crimson":       "#dc143c",
	"tomato":        "#ff6347",
	"turquoise":     "#40e0d0",
	"lavender":      "#e6e6fa",
	"skyblue":       "#87ceeb",
	"steelblue":     "#4682b4",
	"slategray":     "#708090",
	"slategrey":     "#708090",
	"darkgray":      "#a9a9a9",
	"darkgrey":      "#a9a9a9",
	"lightgray":     "#d3d3d3",
	"lightgrey":     "#d3d3d3",
	"dimgray":       "#696969",
	"dimgrey":       "#696969",
	"gainsboro":     "#dcdcdc",
	"whitesmoke":    "#f5f5f5",
	"snow":          "#fffafa",
	"seashell":      "#fff5ee",
	"honeydew":      "#f0fff0",
	"aliceblue":     "#f0f8ff",
	"ghostwhite":    "#f8f8ff",
	"mintcream":     "#f5fffa",
	"rebeccapurple": "#663399",
}
