package document

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// headings maps a level (1-6) to its element.
var headings = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// HeadingLevel returns 1-6 for h1-h6 elements and 0 otherwise.
func HeadingLevel(n *html.Node) int {
	if n == nil || n.Type != html.ElementNode || n.Namespace != "" {
		return 0
	}
	for i, a := range headings {
		if n.DataAtom == a {
			return i + 1
		}
	}
	return 0
}

// Heading returns the element for a heading level, clamped to 1-6.
func Heading(level int) atom.Atom {
	return headings[min(max(level, 1), 6)-1]
}

// Skeleton builds an empty html document titled title and returns the
// document node and its body.
func Skeleton(title string) (root, body *html.Node) {
	root = &html.Node{Type: html.DocumentNode}
	htmlEl := Element(atom.Html)
	head := Element(atom.Head)
	body = Element(atom.Body)
	if title != "" {
		head.AppendChild(Element(atom.Title, Text(title)))
	}
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	root.AppendChild(htmlEl)
	return root, body
}

// Element creates an HTML element with the given children.
func Element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// Text creates a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// SetAttr sets an attribute on n, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
