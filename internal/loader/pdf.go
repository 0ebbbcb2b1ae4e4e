package loader

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dgallion1/rendertext/internal/document"
	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/net/html/atom"
)

// PDFLoader handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled. Each page becomes a
// <section data-page="N"> of paragraphs.
type PDFLoader struct {
	FallbackPdftotext bool
}

func (l *PDFLoader) Load(r io.Reader, filename string) (*document.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "rendertext-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && l.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	title := baseTitle(filename)
	root, body := document.Skeleton(title)
	for i, page := range strings.Split(text, "\f") {
		paras := splitParagraphs(page)
		if len(paras) == 0 {
			continue
		}
		section := document.Element(atom.Section)
		document.SetAttr(section, "data-page", strconv.Itoa(i+1))
		for _, p := range paras {
			section.AppendChild(document.Element(atom.P, document.Text(p)))
		}
		body.AppendChild(section)
	}

	return &document.Document{Title: title, Filename: filename, Root: root}, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// splitParagraphs cuts page text on blank lines.
func splitParagraphs(page string) []string {
	var paras []string
	for _, block := range strings.Split(strings.ReplaceAll(page, "\r\n", "\n"), "\n\n") {
		if p := strings.TrimSpace(block); p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}
