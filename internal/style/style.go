// Package style supplies computed CSS values for elements of an
// x/net/html document. It stands in for a browser's style engine: only the
// properties that decide which text is rendered are resolved.
package style

import "golang.org/x/net/html"

// Oracle reports computed style and visibility for elements.
// Implementations must not cache computed values across calls; use Memo
// to share them within a single traversal.
type Oracle interface {
	ComputedStyle(el *html.Node) Computed
	Visible(el *html.Node) bool
}

// Computed holds the computed values of the properties the rendered-text
// collection consults. Values are lower-case CSS keywords or raw lengths.
type Computed struct {
	Display            string
	Visibility         string
	WhiteSpaceCollapse string
	TextTransform      string
	Position           string
	Float              string

	Opacity  string
	Clip     string
	ClipPath string
	Overflow string
	Width    string
	Height   string
	Left     string
	Top      string
}

// PreservesWhitespace reports whether white space in text is kept as is.
func (c Computed) PreservesWhitespace() bool {
	return c.WhiteSpaceCollapse == "preserve" || c.WhiteSpaceCollapse == "break-spaces"
}

// InlineBlockLike reports whether the display is inline-block, inline-flex
// or inline-grid.
func (c Computed) InlineBlockLike() bool {
	switch c.Display {
	case "inline-block", "inline-flex", "inline-grid":
		return true
	}
	return false
}

type property struct {
	name      string
	initial   string
	inherited bool
	field     func(*Computed) *string
}

var properties = []property{
	{"display", "inline", false, func(c *Computed) *string { return &c.Display }},
	{"visibility", "visible", true, func(c *Computed) *string { return &c.Visibility }},
	{"white-space-collapse", "collapse", true, func(c *Computed) *string { return &c.WhiteSpaceCollapse }},
	{"text-transform", "none", true, func(c *Computed) *string { return &c.TextTransform }},
	{"position", "static", false, func(c *Computed) *string { return &c.Position }},
	{"float", "none", false, func(c *Computed) *string { return &c.Float }},
	{"opacity", "1", false, func(c *Computed) *string { return &c.Opacity }},
	{"clip", "auto", false, func(c *Computed) *string { return &c.Clip }},
	{"clip-path", "none", false, func(c *Computed) *string { return &c.ClipPath }},
	{"overflow", "visible", false, func(c *Computed) *string { return &c.Overflow }},
	{"width", "auto", false, func(c *Computed) *string { return &c.Width }},
	{"height", "auto", false, func(c *Computed) *string { return &c.Height }},
	{"left", "auto", false, func(c *Computed) *string { return &c.Left }},
	{"top", "auto", false, func(c *Computed) *string { return &c.Top }},
}

// Initial returns the computed style of an element nothing applies to.
func Initial() Computed {
	var c Computed
	for _, p := range properties {
		*p.field(&c) = p.initial
	}
	return c
}
