package innertext

import (
	"math"

	"github.com/dgallion1/rendertext/internal/dom"
	"golang.org/x/net/html"
)

// View is the rendered text of a subtree together with the items it was
// joined from. Offsets are UTF-16 code units.
//
// A View keeps a seek cursor so that queries with non-decreasing offsets
// only visit the items between them. It is not safe for concurrent use;
// give each goroutine its own Clone.
type View struct {
	items  []Item
	text   string
	length int
	valid  bool

	position int
	consumed int
}

// Segment locates one item inside the rendered text.
type Segment struct {
	Item  Item
	Start int
	End   int
}

// New collects and condenses the rendered text of node.
//
// In standards mode only HTML elements have rendered text: any other node
// yields an empty view whose Value reports false, and an element that is
// not being rendered yields its text content.
func New(node *html.Node, opts Options) *View {
	opts = opts.withDefaults(node)
	log := opts.Logger.With("component", "innertext", "node", dom.NodeName(node))

	if opts.Mode == ModeStandards {
		if !dom.IsHTMLElement(node) {
			log.Debug("no rendered text for node")
			return newView(nil, false)
		}
		if !renders(node, opts.Oracle.ComputedStyle(node)) {
			text := dom.TextContent(node)
			log.Debug("element not rendered, using text content", "length", dom.UTF16Len(text))
			return newView([]Item{&Text{
				Content:   text,
				Node:      node,
				EndOffset: dom.ChildCount(node),
			}}, true)
		}
	}

	raw := Collect(node, opts)
	items := Condense(raw)
	v := newView(items, true)
	log.Debug("collected rendered text",
		"raw_items", len(raw),
		"items", len(items),
		"length", v.length,
	)
	return v
}

func newView(items []Item, valid bool) *View {
	v := &View{items: items, text: Join(items), valid: valid}
	v.length = dom.UTF16Len(v.text)
	return v
}

// String returns the rendered text.
func (v *View) String() string { return v.text }

// Value returns the rendered text, or false when the node has none.
func (v *View) Value() (string, bool) { return v.text, v.valid }

// Len returns the length of the rendered text in UTF-16 code units.
func (v *View) Len() int { return v.length }

// Items returns the condensed items. The slice must not be modified.
func (v *View) Items() []Item { return v.items }

// Clone returns a view sharing v's items with its own cursor.
func (v *View) Clone() *View {
	return &View{items: v.items, text: v.text, length: v.length, valid: v.valid}
}

// Segments returns every item with the [Start, End) it covers in the
// rendered text.
func (v *View) Segments() []Segment {
	segs := make([]Segment, 0, len(v.items))
	at := 0
	for i, it := range v.items {
		n := v.itemLength(i)
		segs = append(segs, Segment{Item: it, Start: at, End: at + n})
		at += n
	}
	return segs
}

// Range maps the rendered-text range [start, end] to DOM boundary points.
// Resolve ranges in increasing order where possible; seeking backwards
// restarts the cursor.
func (v *View) Range(start, end int) (dom.Range, error) {
	if err := v.check(start); err != nil {
		return dom.Range{}, err
	}
	if err := v.check(end); err != nil {
		return dom.Range{}, err
	}
	if start > end {
		return dom.Range{}, &RangeError{Index: start, Reason: "start after end"}
	}
	s, err := v.seek(start)
	if err != nil {
		return dom.Range{}, err
	}
	e, err := v.seek(end)
	if err != nil {
		return dom.Range{}, err
	}
	return dom.Range{Start: s, End: e}, nil
}

// Caret returns the collapsed range at offset i.
func (v *View) Caret(i int) (dom.Range, error) {
	return v.Range(i, i)
}

// Position maps offset i to a single boundary point.
func (v *View) Position(i int) (dom.Point, error) {
	if err := v.check(i); err != nil {
		return dom.Point{}, err
	}
	return v.seek(i)
}

func (v *View) check(i int) error {
	if i < 0 || i > v.length {
		return outOfBounds(i)
	}
	return nil
}

func (v *View) itemLength(i int) int {
	switch it := v.items[i].(type) {
	case *Text:
		return dom.UTF16Len(it.Content)
	case *LineBreak:
		if i == 0 || i == len(v.items)-1 {
			return 0
		}
		return it.Count
	}
	return 0
}

func (v *View) seek(offset int) (dom.Point, error) {
	if offset == v.length {
		return v.end(offset)
	}
	if offset < v.consumed {
		v.position, v.consumed = 0, 0
	}
	for v.position < len(v.items) {
		n := v.itemLength(v.position)
		if offset < v.consumed+n {
			return resolve(v.items[v.position], offset-v.consumed), nil
		}
		v.consumed += n
		v.position++
	}
	return dom.Point{}, &RangeError{Index: offset, Reason: "no item at offset"}
}

func (v *View) end(offset int) (dom.Point, error) {
	for i := len(v.items) - 1; i >= 0; i-- {
		if v.itemLength(i) == 0 {
			continue
		}
		switch it := v.items[i].(type) {
		case *Text:
			return dom.Point{Node: it.Node, Offset: it.EndOffset}, nil
		case *LineBreak:
			return dom.Point{Node: it.Node, Offset: it.Offset}, nil
		}
	}
	return dom.Point{}, &RangeError{Index: offset, Reason: "no item with content"}
}

func resolve(it Item, rel int) dom.Point {
	switch it := it.(type) {
	case *Text:
		n := dom.UTF16Len(it.Content)
		span := it.EndOffset - it.StartOffset
		if n == span {
			return dom.Point{Node: it.Node, Offset: it.StartOffset + rel}
		}
		off := it.StartOffset + int(math.Round(float64(rel)/float64(n)*float64(span)))
		return dom.Point{Node: it.Node, Offset: min(max(off, it.StartOffset), it.EndOffset)}
	case *LineBreak:
		return dom.Point{Node: it.Node, Offset: it.Offset}
	}
	return dom.Point{}
}
