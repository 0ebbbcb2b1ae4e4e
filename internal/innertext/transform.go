package innertext

import (
	"strings"
	"unicode"

	"github.com/dgallion1/rendertext/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TransformConfig carries the computed values that shape a text run.
type TransformConfig struct {
	TextTransform      string
	WhiteSpaceCollapse string
	TrimLeading        bool
}

func (c TransformConfig) collapses() bool {
	return c.WhiteSpaceCollapse != "preserve" && c.WhiteSpaceCollapse != "break-spaces"
}

func (c TransformConfig) letterCase() string {
	switch c.TextTransform {
	case "uppercase", "lowercase", "capitalize":
		return c.TextTransform
	}
	return ""
}

// Span is a piece of transformed text and the [StartOffset, EndOffset)
// range of the original text, in UTF-16 code units, it came from.
type Span struct {
	Text        string
	StartOffset int
	EndOffset   int
}

// sameLength reports whether the span maps 1:1 onto its source range.
func (s Span) sameLength() bool {
	return dom.UTF16Len(s.Text) == s.EndOffset-s.StartOffset
}

// TransformResult is the transformed text and the spans it is made of.
type TransformResult struct {
	Text  string
	Spans []Span
}

type runKind int

const (
	runOther runKind = iota
	runSpace
	runLetters
)

// Transform applies white-space collapsing and text-transform casing to
// text. Adjacent spans that kept their length are merged; spans that
// changed length stay separate so offsets inside them can be interpolated.
func Transform(text string, cfg TransformConfig, locale language.Tag) TransformResult {
	collapse := cfg.collapses()
	letterCase := cfg.letterCase()
	identity := TransformResult{
		Text:  text,
		Spans: []Span{{Text: text, StartOffset: 0, EndOffset: dom.UTF16Len(text)}},
	}
	if !collapse && letterCase == "" {
		return identity
	}

	classify := func(r rune) runKind {
		switch {
		case collapse && isASCIIWhitespace(r):
			return runSpace
		case letterCase != "" && unicode.IsLetter(r):
			return runLetters
		}
		return runOther
	}

	var (
		spans      []Span
		combinable bool
		matched    bool
		caser      *cases.Caser
	)
	push := func(s Span) {
		current := s.sameLength()
		if combinable && current {
			last := &spans[len(spans)-1]
			last.Text += s.Text
			last.EndOffset = s.EndOffset
		} else {
			spans = append(spans, s)
		}
		combinable = current
	}
	transformLetters := func(l string) string {
		if caser == nil {
			var c cases.Caser
			switch letterCase {
			case "uppercase", "capitalize":
				c = cases.Upper(locale)
			case "lowercase":
				c = cases.Lower(locale)
			}
			caser = &c
		}
		if letterCase == "capitalize" {
			first, rest := splitFirstRune(l)
			return caser.String(first) + rest
		}
		return caser.String(l)
	}
	flush := func(kind runKind, raw string, start, end int) {
		var t string
		switch kind {
		case runSpace:
			matched = true
			if start == 0 && cfg.TrimLeading {
				t = ""
			} else {
				t = " "
			}
		case runLetters:
			matched = true
			t = transformLetters(raw)
		default:
			t = raw
		}
		push(Span{Text: t, StartOffset: start, EndOffset: end})
	}

	runKindCur, runByte, runStart := runOther, 0, 0
	pos := 0
	for i, r := range text {
		k := classify(r)
		if i > 0 && k != runKindCur {
			flush(runKindCur, text[runByte:i], runStart, pos)
			runByte, runStart = i, pos
		}
		runKindCur = k
		pos += dom.RuneLen(r)
	}
	if len(text) > 0 {
		flush(runKindCur, text[runByte:], runStart, pos)
	}
	if !matched {
		return identity
	}

	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return TransformResult{Text: b.String(), Spans: spans}
}

// LocaleFor returns the language of the closest element (n itself or an
// ancestor) carrying a lang attribute, or language.Und.
func LocaleFor(n *html.Node) language.Tag {
	el := n
	if !dom.IsElement(el) {
		el = dom.ParentElement(n)
	}
	for ; el != nil; el = dom.ParentElement(el) {
		lang, ok := dom.Attr(el, "lang")
		if !ok {
			continue
		}
		tag, err := language.Parse(lang)
		if err != nil {
			return language.Und
		}
		return tag
	}
	return language.Und
}

// isASCIIWhitespace matches tab, LF, FF, CR and space.
func isASCIIWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func splitFirstRune(s string) (string, string) {
	for i := range s {
		if i > 0 {
			return s[:i], s[i:]
		}
	}
	return s, ""
}
