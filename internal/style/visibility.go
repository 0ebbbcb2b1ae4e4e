package style

import (
	"strconv"
	"strings"

	"github.com/dgallion1/rendertext/internal/dom"
	"golang.org/x/net/html"
)

// offscreen is how far a positioned box has to be pushed out of the page
// before it counts as hidden ("screen reader only" patterns).
const offscreen = -1000

// IsVisible decides whether el would be painted, using c as its computed
// style. Without a layout engine, bounding-box checks are approximated
// from declared sizes and offsets.
func IsVisible(el *html.Node, c Computed) bool {
	if el == nil || el.Type != html.ElementNode {
		return false
	}
	if dom.HasAttr(el, "hidden") {
		return false
	}
	if c.Display == "none" || c.Visibility == "hidden" || c.Visibility == "collapse" {
		return false
	}
	if f, err := strconv.ParseFloat(c.Opacity, 64); err == nil && f <= 0 {
		return false
	}
	if isZeroClip(c.Clip) || c.ClipPath == "inset(50%)" || c.ClipPath == "inset(100%)" {
		return false
	}
	if c.Overflow == "hidden" || c.Overflow == "clip" {
		if isZeroLength(c.Width) || isZeroLength(c.Height) {
			return false
		}
	}
	if c.Position == "absolute" || c.Position == "fixed" {
		if px, ok := pixels(c.Left); ok && px <= offscreen {
			return false
		}
		if px, ok := pixels(c.Top); ok && px <= offscreen {
			return false
		}
	}
	return true
}

func isZeroClip(v string) bool {
	if !strings.HasPrefix(v, "rect(") || !strings.HasSuffix(v, ")") {
		return false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(v, "rect("), ")")
	parts := strings.FieldsFunc(inner, func(r rune) bool { return r == ',' || r == ' ' })
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if !isZeroLength(p) {
			return false
		}
	}
	return true
}

func isZeroLength(v string) bool {
	px, ok := pixels(v)
	return ok && px == 0
}

// pixels parses a length in px (or a unitless zero).
func pixels(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "0" {
		return 0, true
	}
	num, ok := strings.CutSuffix(v, "px")
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
