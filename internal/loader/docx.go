package loader

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgallion1/rendertext/internal/document"
	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DOCXLoader handles .docx files. Paragraphs styled as headings become
// h1-h6, everything else a <p>.
type DOCXLoader struct{}

func (l *DOCXLoader) Load(r io.Reader, filename string) (*document.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "rendertext-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	parsed, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	title := baseTitle(filename)
	titled := false
	var blocks []*html.Node

	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		tag := atom.P
		if level := docxHeadingLevel(para); level > 0 {
			tag = document.Heading(level)
			if level == 1 && !titled {
				title, titled = text, true
			}
		}
		blocks = append(blocks, document.Element(tag, document.Text(text)))
	}

	root, body := document.Skeleton(title)
	for _, b := range blocks {
		body.AppendChild(b)
	}
	return &document.Document{Title: title, Filename: filename, Root: root}, nil
}

// docxHeadingLevel reads "Heading1" / "heading 1" style names.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	name := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	rest, ok := strings.CutPrefix(name, "heading")
	if !ok {
		return 0
	}
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 || level > 6 {
		return 0
	}
	return level
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
