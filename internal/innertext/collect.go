package innertext

import (
	"github.com/dgallion1/rendertext/internal/dom"
	"github.com/dgallion1/rendertext/internal/style"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// replaced elements render something other than their children.
var replaced = map[atom.Atom]bool{
	atom.Canvas:   true,
	atom.Img:      true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Input:    true,
	atom.Textarea: true,
	atom.Audio:    true,
	atom.Video:    true,
}

func isReplaced(n *html.Node) bool {
	return dom.IsHTMLElement(n) && replaced[n.DataAtom]
}

// collectState is threaded through one traversal and discarded after it.
type collectState struct {
	mayStartWithWhitespace bool

	// deferred is the item whose trailing space was dropped, waiting for
	// the next text run to decide whether it comes back. When emitted is
	// false the item holds nothing but that space and is not in the output.
	deferred *Text
	emitted  bool

	withinTable        bool
	withinTableContent bool
	firstTableCell     bool
	firstTableRow      bool

	withinSvg     bool
	withinSvgText bool
}

type collector struct {
	opts  Options
	items []Item
	state collectState
}

// Collect walks node depth first and returns the raw, uncondensed items.
// Disconnected elements and node kinds other than elements and text
// contribute nothing.
func Collect(node *html.Node, opts Options) []Item {
	if node == nil {
		return nil
	}
	opts = opts.withDefaults(node)
	opts.Oracle = style.Memo(opts.Oracle)
	c := &collector{
		opts: opts,
		state: collectState{
			firstTableCell: true,
			firstTableRow:  true,
		},
	}
	switch {
	case dom.IsText(node):
		c.text(node)
	case dom.IsElement(node) && dom.Connected(node):
		c.element(node)
	}
	return c.items
}

func (c *collector) push(it Item) {
	c.items = append(c.items, it)
}

// breakLines records a forced line break and resets whitespace tracking.
func (c *collector) breakLines(count int, n *html.Node, offset int) {
	c.push(&LineBreak{Count: count, Node: n, Offset: offset})
	c.state.deferred = nil
	c.state.mayStartWithWhitespace = true
}

// literalSpace materializes a deferred space as its own item on el.
func (c *collector) literalSpace(el *html.Node) {
	c.push(&Text{Content: " ", Node: el})
	c.state.deferred = nil
}

func (c *collector) children(n *html.Node) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		switch ch.Type {
		case html.TextNode:
			c.text(ch)
		case html.ElementNode:
			c.element(ch)
		}
	}
}

func (c *collector) text(n *html.Node) {
	parent := n.Parent
	if !dom.IsElement(parent) {
		if n.Data != "" {
			c.push(&Text{Content: n.Data, Node: n, EndOffset: dom.UTF16Len(n.Data)})
		}
		return
	}

	st := &c.state
	switch {
	case st.withinSvg && !st.withinSvgText:
		return
	case isReplaced(parent):
		return
	case dom.Is(parent, atom.Optgroup) && !dom.Is(parent.Parent, atom.Select):
		return
	case dom.Is(parent, atom.Select):
		return
	case st.withinTable && !st.withinTableContent:
		return
	}

	cs := c.opts.Oracle.ComputedStyle(parent)
	if cs.Visibility != "visible" {
		return
	}
	if cs.Display == "none" && !dom.Is(parent, atom.Option) && !dom.Is(parent, atom.Optgroup) {
		return
	}

	preserve := cs.PreservesWhitespace()
	res := Transform(n.Data, TransformConfig{
		TextTransform:      cs.TextTransform,
		WhiteSpaceCollapse: cs.WhiteSpaceCollapse,
		TrimLeading:        !preserve && (st.mayStartWithWhitespace || cs.InlineBlockLike()),
	}, LocaleFor(parent))

	if st.deferred != nil && !startsWithWhitespace(res.Text) {
		d := st.deferred
		if d.EndOffset < dom.Length(d.Node) {
			d.Content += " "
			d.EndOffset++
			if !st.emitted {
				c.push(d)
			}
		}
		st.deferred = nil
	}

	if res.Text == "" {
		return
	}

	spans := res.Spans
	var pending *Text
	if !preserve && endsWithWhitespace(res.Text) {
		last := len(spans) - 1
		for last >= 0 && spans[last].Text == "" {
			last--
		}
		s := spans[last]
		pending = &Text{
			Content:     s.Text[:len(s.Text)-1],
			Node:        n,
			StartOffset: s.StartOffset,
			EndOffset:   s.EndOffset - 1,
		}
		spans = spans[:last]
		st.mayStartWithWhitespace = false
	} else {
		st.mayStartWithWhitespace = endsWithWhitespace(res.Text)
		st.deferred = nil
	}

	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		c.push(&Text{Content: s.Text, Node: n, StartOffset: s.StartOffset, EndOffset: s.EndOffset})
	}
	if pending != nil {
		st.deferred = pending
		st.emitted = pending.Content != ""
		if st.emitted {
			c.push(pending)
		}
	}
}

func (c *collector) element(el *html.Node) {
	st := &c.state

	// template contents are parsed as children but are not part of the tree
	if dom.Is(el, atom.Noscript) || dom.Is(el, atom.Template) {
		return
	}
	if c.opts.Mode == ModeVisual && !c.opts.Oracle.Visible(el) {
		return
	}
	if c.opts.Include != nil && !c.opts.Include(el) {
		return
	}

	if st.withinSvg {
		if dom.IsSVG(el, "defs") {
			return
		}
		if dom.IsSVG(el, "text") {
			outer := st.withinSvgText
			st.withinSvgText = true
			c.children(el)
			st.withinSvgText = outer
			return
		}
	}
	if dom.IsSVG(el, "svg") {
		outer := st.withinSvg
		st.withinSvg = true
		c.children(el)
		st.withinSvg = outer
		return
	}

	if dom.Is(el, atom.Br) {
		st.deferred = nil
		st.mayStartWithWhitespace = true
		c.push(&Text{Content: "\n", Node: el})
		return
	}

	cs := c.opts.Oracle.ComputedStyle(el)
	optionLike := dom.Is(el, atom.Option) || dom.Is(el, atom.Optgroup)
	if cs.Visibility != "visible" {
		c.children(el)
		return
	}

	breaks := 0
	if cs.Position == "absolute" || cs.Float != "none" {
		breaks = 1
	}

	switch cs.Display {
	case "table":
		breaks = 1
		st.withinTable = true
	case "table-cell":
		if !st.firstTableCell {
			c.push(&Text{Content: "\t", Node: el})
			st.deferred = nil
		}
		st.firstTableCell = false
		st.withinTableContent = true
	case "table-row":
		if !st.firstTableRow {
			c.push(&Text{Content: "\n", Node: el})
			st.deferred = nil
		}
		st.firstTableRow = false
		st.firstTableCell = true
	case "block", "list-item", "flex", "grid":
		breaks = 1
	case "table-caption":
		breaks = 1
		st.withinTableContent = true
	case "inline-block", "inline-flex", "inline-grid":
		if st.deferred != nil {
			c.literalSpace(el)
			st.mayStartWithWhitespace = true
		}
	}

	switch {
	case dom.Is(el, atom.P):
		breaks = 2
	case optionLike:
		breaks = 1
	}

	if breaks > 0 {
		c.breakLines(breaks, el, 0)
	}

	switch {
	case isReplaced(el):
		if cs.Display != "block" && st.deferred != nil {
			c.literalSpace(el)
		}
		st.mayStartWithWhitespace = false
	case dom.Is(el, atom.Details) && !dom.HasAttr(el, "open"):
		if summary := dom.FirstElementChild(el); dom.Is(summary, atom.Summary) {
			c.element(summary)
		}
	default:
		c.children(el)
	}

	switch cs.Display {
	case "inline-block", "inline-flex", "inline-grid":
		st.deferred = nil
		st.mayStartWithWhitespace = false
	case "table":
		st.withinTable = false
	case "table-cell", "table-caption":
		st.withinTableContent = false
	}

	if breaks > 0 {
		c.breakLines(breaks, el, dom.ChildCount(el))
	}
}

func startsWithWhitespace(s string) bool {
	return s != "" && isASCIIWhitespace(rune(s[0]))
}

func endsWithWhitespace(s string) bool {
	return s != "" && isASCIIWhitespace(rune(s[len(s)-1]))
}

// renders reports whether the standards algorithm treats el as being
// rendered. Elements that are not fall back to their text content.
func renders(el *html.Node, cs style.Computed) bool {
	return cs.Display != "none" || isReplaced(el)
}
