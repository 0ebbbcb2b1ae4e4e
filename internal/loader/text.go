package loader

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/rendertext/internal/document"
	"golang.org/x/net/html/atom"
)

// TextLoader handles plain text files. Blank-line separated paragraphs
// become <p> elements and line breaks inside them <br>.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, filename string) (*document.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs [][]string
	var current []string

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	title := baseTitle(filename)
	root, body := document.Skeleton(title)
	for _, lines := range paragraphs {
		p := document.Element(atom.P)
		for i, line := range lines {
			if i > 0 {
				p.AppendChild(document.Element(atom.Br))
			}
			p.AppendChild(document.Text(line))
		}
		body.AppendChild(p)
	}

	return &document.Document{Title: title, Filename: filename, Root: root}, nil
}
