package chunker

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/rendertext/internal/document"
	"github.com/dgallion1/rendertext/internal/dom"
	"github.com/dgallion1/rendertext/internal/innertext"
	"golang.org/x/net/html"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = d.ChunkOverlap
	}
	if c.MinChunk <= 0 {
		c.MinChunk = d.MinChunk
	}
	return c
}

// Source is rendered text that can be mapped back to the DOM.
// *innertext.View implements it.
type Source interface {
	String() string
	Segments() []innertext.Segment
	Position(i int) (dom.Point, error)
}

// span is a byte range of the rendered text.
type span struct {
	start, end int
	tokens     int
}

// Chunk splits the rendered text of src into chunks of about
// cfg.ChunkSize tokens. Chunks are contiguous pieces of the text, cut at
// paragraph breaks (blank lines) or, inside oversized paragraphs, at
// sentence ends. Each chunk is mapped back to a DOM range.
func Chunk(src Source, cfg Config) ([]document.Chunk, error) {
	cfg = cfg.withDefaults()
	text := src.String()

	var kept []span
	for _, s := range pack(text, splitUnits(text, cfg.ChunkSize), cfg) {
		if EstimateTokens(text[s.start:s.end]) >= cfg.MinChunk {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}

	bounds := make([]int, 0, 2*len(kept))
	for _, s := range kept {
		bounds = append(bounds, s.start, s.end)
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)
	units := utf16Offsets(text, bounds)

	// resolve in increasing order so the view's cursor only moves forward
	points := make(map[int]dom.Point, len(bounds))
	for _, b := range bounds {
		p, err := src.Position(units[b])
		if err != nil {
			return nil, fmt.Errorf("map offset %d: %w", units[b], err)
		}
		points[b] = p
	}

	segs := src.Segments()
	heads := headings(segs)
	chunks := make([]document.Chunk, 0, len(kept))
	for i, s := range kept {
		chunks = append(chunks, document.Chunk{
			Index:      i,
			Text:       text[s.start:s.end],
			Start:      units[s.start],
			End:        units[s.end],
			Range:      dom.Range{Start: points[s.start], End: points[s.end]},
			Breadcrumb: breadcrumb(heads, contentStart(segs, units[s.start], units[s.end])),
		})
	}
	return chunks, nil
}

// splitUnits cuts text into paragraphs, and paragraphs over target tokens
// into sentences.
func splitUnits(text string, targetTokens int) []span {
	var units []span
	for _, p := range splitByParagraphs(text) {
		if p.tokens <= targetTokens {
			units = append(units, p)
			continue
		}
		units = append(units, splitSentences(text, p)...)
	}
	return units
}

// pack greedily joins units into spans of at most targetTokens, starting
// each new span with the overlap words of the previous one.
func pack(text string, units []span, cfg Config) []span {
	var result []span
	current := span{start: -1}

	for _, u := range units {
		if current.start >= 0 && current.tokens+u.tokens > cfg.ChunkSize {
			result = append(result, current)

			prev := current
			current = span{start: -1}
			if o := overlapStart(text, prev, cfg.ChunkOverlap); o >= 0 {
				current = span{start: o, end: prev.end, tokens: EstimateTokens(text[o:prev.end])}
			}
		}
		if current.start < 0 {
			current.start = u.start
		}
		current.end = u.end
		current.tokens += u.tokens
	}

	if current.start >= 0 {
		result = append(result, current)
	}
	return result
}

// splitByParagraphs splits on blank lines, trimming each paragraph.
func splitByParagraphs(text string) []span {
	var result []span
	add := func(start, end int) {
		start, end = trimSpan(text, start, end)
		if start < end {
			result = append(result, span{start: start, end: end, tokens: EstimateTokens(text[start:end])})
		}
	}
	start := 0
	for {
		i := strings.Index(text[start:], "\n\n")
		if i < 0 {
			add(start, len(text))
			return result
		}
		add(start, start+i)
		start += i + 2
	}
}

// splitSentences breaks a paragraph after '.', '!' or '?' followed by a space.
func splitSentences(text string, p span) []span {
	var result []span
	add := func(start, end int) {
		start, end = trimSpan(text, start, end)
		if start < end {
			result = append(result, span{start: start, end: end, tokens: EstimateTokens(text[start:end])})
		}
	}
	start := p.start
	for i := p.start; i < p.end; i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < p.end && text[i+1] == ' ' {
				add(start, i+1)
				start = i + 1
			}
		}
	}
	add(start, p.end)
	return result
}

// overlapStart returns where the last overlapTokens worth of words of s
// begin, or -1 when s is too short to overlap.
func overlapStart(text string, s span, overlapTokens int) int {
	// Approximate: 1.33 tokens per word.
	targetWords := int(float64(overlapTokens) / 1.33)
	starts := wordStarts(text, s.start, s.end)
	if targetWords <= 0 || len(starts) <= targetWords {
		return -1
	}
	return starts[len(starts)-targetWords]
}

func wordStarts(text string, start, end int) []int {
	var starts []int
	inWord := false
	for i, r := range text[start:end] {
		space := unicode.IsSpace(r)
		if !space && !inWord {
			starts = append(starts, start+i)
		}
		inWord = !space
	}
	return starts
}

func trimSpan(text string, start, end int) (int, int) {
	for start < end {
		r, n := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += n
	}
	for end > start {
		r, n := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= n
	}
	return start, end
}

// utf16Offsets converts sorted byte offsets of text to UTF-16 offsets.
func utf16Offsets(text string, sorted []int) map[int]int {
	out := make(map[int]int, len(sorted))
	units, next := 0, 0
	for i, r := range text {
		for next < len(sorted) && sorted[next] <= i {
			out[sorted[next]] = units
			next++
		}
		units += dom.RuneLen(r)
	}
	for ; next < len(sorted); next++ {
		out[sorted[next]] = units
	}
	return out
}

type heading struct {
	level int
	title string
	start int
	el    *html.Node
}

// headings lists h1-h6 elements in rendered order with the offset their
// text starts at.
func headings(segs []innertext.Segment) []heading {
	var hs []heading
	for _, seg := range segs {
		t, ok := seg.Item.(*innertext.Text)
		if !ok {
			continue
		}
		el := enclosingHeading(t.Node)
		if el == nil {
			continue
		}
		if n := len(hs); n > 0 && hs[n-1].el == el {
			hs[n-1].title += t.Content
			continue
		}
		hs = append(hs, heading{level: document.HeadingLevel(el), title: t.Content, start: seg.Start, el: el})
	}
	for i := range hs {
		hs[i].title = strings.TrimSpace(hs[i].title)
	}
	return hs
}

func enclosingHeading(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if document.HeadingLevel(n) > 0 {
			return n
		}
	}
	return nil
}

// contentStart returns the offset of the first text in [start, end) that
// is not part of a heading, or start when there is none.
func contentStart(segs []innertext.Segment, start, end int) int {
	for _, seg := range segs {
		if seg.End <= start || seg.Start == seg.End {
			continue
		}
		if seg.Start >= end {
			break
		}
		t, ok := seg.Item.(*innertext.Text)
		if !ok || enclosingHeading(t.Node) != nil || strings.TrimSpace(t.Content) == "" {
			continue
		}
		return max(seg.Start, start)
	}
	return start
}

// breadcrumb returns the heading chain in effect at offset.
func breadcrumb(hs []heading, offset int) []string {
	var stack []heading
	for _, h := range hs {
		if h.start > offset {
			break
		}
		for len(stack) > 0 && stack[len(stack)-1].level >= h.level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, h)
	}
	if len(stack) == 0 {
		return nil
	}
	out := make([]string, len(stack))
	for i, h := range stack {
		out[i] = h.title
	}
	return out
}
