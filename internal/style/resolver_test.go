package style

import (
	"strings"
	"testing"

	"github.com/dgallion1/rendertext/internal/dom"
	"golang.org/x/net/html"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func byID(n *html.Node, id string) *html.Node {
	if v, ok := dom.Attr(n, "id"); ok && v == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := byID(c, id); f != nil {
			return f
		}
	}
	return nil
}

func TestResolver_UserAgentDefaults(t *testing.T) {
	doc := parse(t, `<div id="div"><span id="span">x</span><table><tr><td id="td">c</td></tr></table><pre id="pre">p</pre><li id="li">l</li></div>`)
	r := NewResolver(doc, nil)

	cases := []struct {
		id, display string
	}{
		{"div", "block"},
		{"span", "inline"},
		{"td", "table-cell"},
		{"li", "list-item"},
		{"pre", "block"},
	}
	for _, c := range cases {
		if got := r.ComputedStyle(byID(doc, c.id)).Display; got != c.display {
			t.Errorf("%s: expected display %q, got %q", c.id, c.display, got)
		}
	}
	if got := r.ComputedStyle(byID(doc, "pre")).WhiteSpaceCollapse; got != "preserve" {
		t.Errorf("expected pre to preserve white space, got %q", got)
	}
}

func TestResolver_CascadeOrder(t *testing.T) {
	doc := parse(t, `<style>
		.a { display: block; text-transform: lowercase }
		.a { text-transform: uppercase }
		.b { display: flex !important }
	</style>
	<span id="a" class="a">x</span>
	<span id="inline" class="a" style="display: inline-block">x</span>
	<span id="important" class="b" style="display: grid">x</span>`)
	r := NewResolver(doc, nil)

	a := r.ComputedStyle(byID(doc, "a"))
	if a.Display != "block" {
		t.Errorf("expected author sheet to apply, got %q", a.Display)
	}
	if a.TextTransform != "uppercase" {
		t.Errorf("expected later declaration to win, got %q", a.TextTransform)
	}
	if got := r.ComputedStyle(byID(doc, "inline")).Display; got != "inline-block" {
		t.Errorf("expected inline style to beat the sheet, got %q", got)
	}
	if got := r.ComputedStyle(byID(doc, "important")).Display; got != "flex" {
		t.Errorf("expected !important to beat inline style, got %q", got)
	}
}

func TestResolver_Inheritance(t *testing.T) {
	doc := parse(t, `<div id="outer" style="visibility: hidden; text-transform: capitalize; white-space: pre-wrap; display: flex">
		<span id="inner">x</span>
		<span id="reset" style="visibility: visible; white-space: normal; display: inherit">y</span>
	</div>`)
	r := NewResolver(doc, nil)

	inner := r.ComputedStyle(byID(doc, "inner"))
	if inner.Visibility != "hidden" || inner.TextTransform != "capitalize" || inner.WhiteSpaceCollapse != "preserve" {
		t.Errorf("expected inherited values, got %+v", inner)
	}
	if inner.Display != "inline" {
		t.Errorf("expected display not to inherit, got %q", inner.Display)
	}

	reset := r.ComputedStyle(byID(doc, "reset"))
	if reset.Visibility != "visible" || reset.WhiteSpaceCollapse != "collapse" {
		t.Errorf("expected explicit values to win, got %+v", reset)
	}
	if reset.Display != "flex" {
		t.Errorf("expected display: inherit to take the parent value, got %q", reset.Display)
	}
}

func TestResolver_InlineStyleIsLive(t *testing.T) {
	doc := parse(t, `<p id="p">x</p>`)
	r := NewResolver(doc, nil)
	p := byID(doc, "p")

	if got := r.ComputedStyle(p).Display; got != "block" {
		t.Fatalf("expected block, got %q", got)
	}
	p.Attr = append(p.Attr, html.Attribute{Key: "style", Val: "display: none"})
	if got := r.ComputedStyle(p).Display; got != "none" {
		t.Errorf("expected inline edit to be seen without refresh, got %q", got)
	}
}

func TestResolver_MalformedStyleIgnored(t *testing.T) {
	doc := parse(t, `<style>:::nonsense { display: none } p { display: inline }</style><p id="p" style="display">x</p>`)
	r := NewResolver(doc, nil)
	if got := r.ComputedStyle(byID(doc, "p")).Display; got != "inline" {
		t.Errorf("expected valid rule to still apply, got %q", got)
	}
}

func TestNormalize_WhiteSpaceShorthand(t *testing.T) {
	cases := map[string]string{
		"pre":          "preserve",
		"pre-wrap":     "preserve",
		"break-spaces": "break-spaces",
		"pre-line":     "preserve-breaks",
		"nowrap":       "collapse",
		"normal":       "collapse",
	}
	for in, want := range cases {
		prop, got := normalize("white-space", in)
		if prop != "white-space-collapse" || got != want {
			t.Errorf("white-space: %s: expected %q, got %s: %q", in, want, prop, got)
		}
	}
	if _, got := normalize("display", "Block Flow"); got != "block" {
		t.Errorf("expected two-value display to map to block, got %q", got)
	}
}

func TestIsVisible(t *testing.T) {
	doc := parse(t, `<div id="plain">x</div>
		<div id="hidden" hidden>x</div>
		<div id="opacity" style="opacity: 0">x</div>
		<div id="faint" style="opacity: 0.5">x</div>
		<div id="clip" style="position: absolute; clip: rect(0 0 0 0)">x</div>
		<div id="clippath" style="clip-path: inset(50%)">x</div>
		<div id="overflow" style="overflow: hidden; height: 0">x</div>
		<div id="offscreen" style="position: absolute; left: -10000px">x</div>
		<div id="nudged" style="position: relative; left: -10000px">x</div>
		<div id="collapse" style="visibility: collapse">x</div>`)
	r := NewResolver(doc, nil)

	want := map[string]bool{
		"plain":     true,
		"hidden":    false,
		"opacity":   false,
		"faint":     true,
		"clip":      false,
		"clippath":  false,
		"overflow":  false,
		"offscreen": false,
		"nudged":    true,
		"collapse":  false,
	}
	for id, visible := range want {
		if got := r.Visible(byID(doc, id)); got != visible {
			t.Errorf("%s: expected visible=%v, got %v", id, visible, got)
		}
	}
	if r.Visible(nil) {
		t.Error("expected nil to be invisible")
	}
}
