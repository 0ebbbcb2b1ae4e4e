// Package document holds the parsed documents the service renders and the
// chunks cut from their rendered text.
package document

import (
	"github.com/dgallion1/rendertext/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is an uploaded file turned into a DOM.
type Document struct {
	ID          string
	Title       string
	Filename    string
	ContentHash string

	// Root is the html.DocumentNode of the tree.
	Root *html.Node
}

// Body returns the document's <body>, or Root when there is none.
func (d *Document) Body() *html.Node {
	if b := Find(d.Root, func(n *html.Node) bool { return dom.Is(n, atom.Body) }); b != nil {
		return b
	}
	return d.Root
}

// Chunk is a sized piece of a document's rendered text. Start and End are
// UTF-16 offsets into the rendered text; Range is where they land in the DOM.
type Chunk struct {
	Index      int
	Text       string
	Start      int
	End        int
	Range      dom.Range
	Breadcrumb []string
}

// Find returns the first node in tree order under n (n included) that
// matches, or nil.
func Find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := Find(c, match); f != nil {
			return f
		}
	}
	return nil
}
