package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Point is a DOM boundary point. For character data Offset counts UTF-16
// code units; for other nodes it is a child index.
type Point struct {
	Node   *html.Node
	Offset int
}

// Range is a pair of boundary points, the equivalent of a DOM Range.
type Range struct {
	Start Point
	End   Point
}

// Collapsed reports whether the range starts where it ends.
func (r Range) Collapsed() bool {
	return r.Start == r.End
}

// String returns the character data between the boundary points in tree
// order, like DOM Range.toString(). Text that is not rendered (hidden
// elements, collapsed whitespace) is included verbatim.
func (r Range) String() string {
	start, end := r.Start, r.End
	if start.Node == nil || end.Node == nil {
		return ""
	}
	if start.Node == end.Node && IsText(start.Node) {
		return SliceUTF16(start.Node.Data, start.Offset, end.Offset)
	}

	var b strings.Builder
	collecting, done := false, false

	atPoint := func(n *html.Node, idx int) {
		if n == start.Node && idx == start.Offset {
			collecting = true
		}
		if n == end.Node && idx == end.Offset {
			done = true
		}
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			switch {
			case n == start.Node:
				collecting = true
				b.WriteString(SliceUTF16(n.Data, start.Offset, UTF16Len(n.Data)))
			case n == end.Node:
				if collecting {
					b.WriteString(SliceUTF16(n.Data, 0, end.Offset))
				}
				done = true
			case collecting:
				b.WriteString(n.Data)
			}
			return
		}
		i := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			atPoint(n, i)
			if done {
				return
			}
			walk(c)
			if done {
				return
			}
			i++
		}
		atPoint(n, i)
	}
	walk(Root(start.Node))
	return b.String()
}
