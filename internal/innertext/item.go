// Package innertext computes the rendered text of a DOM subtree (what
// HTMLElement.innerText would return) and maps offsets in that text back to
// DOM boundary points.
//
// Collection walks the subtree once, asking a style.Oracle about every
// element, and emits Items. Condense folds adjacent line breaks, and a View
// joins the items into a string and answers offset queries against them.
package innertext

import (
	"strings"

	"golang.org/x/net/html"
)

// Item is one piece of collected output: a *Text or a *LineBreak.
type Item interface {
	// Target is the node the item maps back to.
	Target() *html.Node
	isItem()
}

// Text is a literal run of rendered text. StartOffset and EndOffset delimit,
// in UTF-16 code units, the part of Node's character data it was derived
// from. Synthetic items (a <br> newline, a table tab) sit on their element
// with both offsets zero.
type Text struct {
	Content     string
	Node        *html.Node
	StartOffset int
	EndOffset   int
}

// LineBreak records that Count line breaks are required at this position.
// Offset is 0 for the break before an element's children and the child
// count for the one after them.
type LineBreak struct {
	Count  int
	Node   *html.Node
	Offset int
}

func (t *Text) Target() *html.Node      { return t.Node }
func (l *LineBreak) Target() *html.Node { return l.Node }

func (*Text) isItem()      {}
func (*LineBreak) isItem() {}

// Join concatenates condensed items: text items contribute their content,
// line breaks Count newlines unless they sit at either end.
func Join(items []Item) string {
	var b strings.Builder
	for i, it := range items {
		switch it := it.(type) {
		case *Text:
			b.WriteString(it.Content)
		case *LineBreak:
			if i == 0 || i == len(items)-1 {
				continue
			}
			b.WriteString(strings.Repeat("\n", it.Count))
		}
	}
	return b.String()
}
