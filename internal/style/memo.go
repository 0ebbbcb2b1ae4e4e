package style

import "golang.org/x/net/html"

type memo struct {
	o       Oracle
	styles  map[*html.Node]Computed
	visible map[*html.Node]bool
}

// Memo wraps o so each element's style and visibility are resolved at most
// once. A memo is only valid while the tree and its inline styles are
// unchanged, so make a fresh one per traversal.
func Memo(o Oracle) Oracle {
	if _, ok := o.(*memo); ok {
		return o
	}
	return &memo{
		o:       o,
		styles:  make(map[*html.Node]Computed),
		visible: make(map[*html.Node]bool),
	}
}

func (m *memo) ComputedStyle(el *html.Node) Computed {
	if c, ok := m.styles[el]; ok {
		return c
	}
	var c Computed
	if r, ok := m.o.(*Resolver); ok {
		// ancestors resolve through the memo too
		c = r.compute(el, m.ComputedStyle)
	} else {
		c = m.o.ComputedStyle(el)
	}
	m.styles[el] = c
	return c
}

func (m *memo) Visible(el *html.Node) bool {
	if v, ok := m.visible[el]; ok {
		return v
	}
	var v bool
	if _, ok := m.o.(*Resolver); ok {
		v = IsVisible(el, m.ComputedStyle(el))
	} else {
		v = m.o.Visible(el)
	}
	m.visible[el] = v
	return v
}
