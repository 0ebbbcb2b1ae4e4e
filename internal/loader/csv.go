package loader

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/rendertext/internal/document"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSVLoader handles CSV files. The first record is the header row of a
// single table.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := baseTitle(filename)
	root, body := document.Skeleton(title)
	doc := &document.Document{Title: title, Filename: filename, Root: root}
	if len(records) == 0 {
		return doc, nil
	}

	row := func(cell atom.Atom, fields []string) *html.Node {
		tr := document.Element(atom.Tr)
		for _, f := range fields {
			tr.AppendChild(document.Element(cell, document.Text(f)))
		}
		return tr
	}

	table := document.Element(atom.Table,
		document.Element(atom.Thead, row(atom.Th, records[0])),
	)
	tbody := document.Element(atom.Tbody)
	for _, rec := range records[1:] {
		tbody.AppendChild(row(atom.Td, rec))
	}
	table.AppendChild(tbody)
	body.AppendChild(table)

	return doc, nil
}
