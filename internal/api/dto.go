package api

import (
	"github.com/dgallion1/rendertext/internal/document"
	"github.com/dgallion1/rendertext/internal/dom"
	"github.com/dgallion1/rendertext/internal/innertext"
	"golang.org/x/net/html"
)

// nodeRef names a node by its child-index path from the document root.
type nodeRef struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func refOf(n *html.Node) nodeRef {
	return nodeRef{Path: dom.PathString(n), Name: dom.NodeName(n)}
}

type itemDTO struct {
	Kind        string  `json:"kind"`
	Node        nodeRef `json:"node"`
	Content     string  `json:"content,omitempty"`
	StartOffset int     `json:"start_offset,omitempty"`
	EndOffset   int     `json:"end_offset,omitempty"`
	Count       int     `json:"count,omitempty"`
	Offset      int     `json:"offset,omitempty"`
}

func itemsDTO(items []innertext.Item) []itemDTO {
	out := make([]itemDTO, 0, len(items))
	for _, it := range items {
		switch it := it.(type) {
		case *innertext.Text:
			out = append(out, itemDTO{
				Kind:        "text",
				Node:        refOf(it.Node),
				Content:     it.Content,
				StartOffset: it.StartOffset,
				EndOffset:   it.EndOffset,
			})
		case *innertext.LineBreak:
			out = append(out, itemDTO{
				Kind:   "linebreak",
				Node:   refOf(it.Node),
				Count:  it.Count,
				Offset: it.Offset,
			})
		}
	}
	return out
}

type pointDTO struct {
	Node   nodeRef `json:"node"`
	Offset int     `json:"offset"`
}

func pointOf(p dom.Point) pointDTO {
	return pointDTO{Node: refOf(p.Node), Offset: p.Offset}
}

type rangeDTO struct {
	Start     pointDTO `json:"start"`
	End       pointDTO `json:"end"`
	Collapsed bool     `json:"collapsed"`
	Text      string   `json:"text"`
}

func rangeOf(r dom.Range) rangeDTO {
	return rangeDTO{
		Start:     pointOf(r.Start),
		End:       pointOf(r.End),
		Collapsed: r.Collapsed(),
		Text:      r.String(),
	}
}

type chunkDTO struct {
	Index      int      `json:"index"`
	Text       string   `json:"text"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Range      rangeDTO `json:"range"`
	Breadcrumb []string `json:"breadcrumb"`
}

func chunksDTO(chunks []document.Chunk) []chunkDTO {
	out := make([]chunkDTO, 0, len(chunks))
	for _, c := range chunks {
		bc := c.Breadcrumb
		if bc == nil {
			bc = []string{}
		}
		out = append(out, chunkDTO{
			Index:      c.Index,
			Text:       c.Text,
			Start:      c.Start,
			End:        c.End,
			Range:      rangeOf(c.Range),
			Breadcrumb: bc,
		})
	}
	return out
}
