// Package dom holds helpers over golang.org/x/net/html nodes that the
// rendered-text code treats as a DOM: connectivity, element predicates,
// UTF-16 character data lengths and node paths.
package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SVGNamespace is the Namespace value x/net/html assigns to SVG elements.
const SVGNamespace = "svg"

// IsText reports whether n is a text node.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// IsHTMLElement reports whether n is an element in the HTML namespace.
func IsHTMLElement(n *html.Node) bool {
	return IsElement(n) && n.Namespace == ""
}

// Is reports whether n is the HTML element with the given tag.
func Is(n *html.Node, a atom.Atom) bool {
	return IsHTMLElement(n) && n.DataAtom == a
}

// IsSVG reports whether n is the SVG element with the given local name.
func IsSVG(n *html.Node, name string) bool {
	return IsElement(n) && n.Namespace == SVGNamespace && n.Data == name
}

// ParentElement returns the parent of n if it is an element, else nil.
func ParentElement(n *html.Node) *html.Node {
	if n == nil || !IsElement(n.Parent) {
		return nil
	}
	return n.Parent
}

// Root returns the topmost ancestor of n (n itself when it has no parent).
func Root(n *html.Node) *html.Node {
	for n != nil && n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Connected reports whether n is attached to a document.
func Connected(n *html.Node) bool {
	r := Root(n)
	return r != nil && r.Type == html.DocumentNode
}

// Attr returns the value of the attribute key on n and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute key is present on n.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// ChildCount returns the number of child nodes of n.
func ChildCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// FirstElementChild returns the first child of n that is an element.
func FirstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c) {
			return c
		}
	}
	return nil
}

// Length returns the DOM length of n: UTF-16 code units for character
// data, the child count otherwise.
func Length(n *html.Node) int {
	switch n.Type {
	case html.TextNode, html.CommentNode:
		return UTF16Len(n.Data)
	default:
		return ChildCount(n)
	}
}

// TextContent concatenates the data of all text node descendants of n.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// NodeName mirrors the DOM nodeName: upper-case tag for HTML elements,
// the local name for foreign elements and #text/#document/#comment otherwise.
func NodeName(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return "#text"
	case html.DocumentNode:
		return "#document"
	case html.CommentNode:
		return "#comment"
	case html.DoctypeNode:
		return "html"
	case html.ElementNode:
		if n.Namespace == "" {
			return strings.ToUpper(n.Data)
		}
		return n.Data
	}
	return ""
}

// Path returns the child indexes leading from the root of n's tree to n.
func Path(n *html.Node) []int {
	var path []int
	for ; n != nil && n.Parent != nil; n = n.Parent {
		i := 0
		for c := n.Parent.FirstChild; c != n; c = c.NextSibling {
			i++
		}
		path = append(path, i)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathString formats Path(n) as a slash separated string such as "/0/1/3".
func PathString(n *html.Node) string {
	var b strings.Builder
	for _, i := range Path(n) {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// Resolve walks path from root and returns the node it names, or nil.
func Resolve(root *html.Node, path []int) *html.Node {
	n := root
	for _, idx := range path {
		if n == nil || idx < 0 {
			return nil
		}
		c := n.FirstChild
		for ; c != nil && idx > 0; c = c.NextSibling {
			idx--
		}
		n = c
	}
	return n
}

// ParsePath parses the output of PathString.
func ParsePath(s string) ([]int, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	path := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		path = append(path, i)
	}
	return path, nil
}
