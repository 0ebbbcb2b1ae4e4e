package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/rendertext/internal/document"
	"github.com/dgallion1/rendertext/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLLoader handles HTML files. The parsed tree is kept as is, styles and
// all, so rendering sees what a browser would.
type HTMLLoader struct{}

func (l *HTMLLoader) Load(r io.Reader, filename string) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &document.Document{
		Title:    baseTitle(filename),
		Filename: filename,
		Root:     root,
	}
	title := document.Find(root, func(n *html.Node) bool { return dom.Is(n, atom.Title) })
	if title != nil {
		if t := strings.TrimSpace(dom.TextContent(title)); t != "" {
			doc.Title = t
		}
	}
	return doc, nil
}
