package loader

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/rendertext/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkdownLoader handles Markdown files using goldmark. The first
// top-level heading becomes the title.
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	tree := md.Parser().Parse(text.NewReader(src))

	title := baseTitle(filename)
	for n := tree.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			if t := strings.TrimSpace(inlineText(h, src)); t != "" {
				title = t
			}
			break
		}
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, tree); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	root, body := document.Skeleton(title)
	nodes, err := html.ParseFragment(&buf, document.Element(atom.Body))
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	return &document.Document{Title: title, Filename: filename, Root: root}, nil
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.WriteString(inlineText(c, src))
	}
	return buf.String()
}
