package innertext

import (
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func el(tag atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag.String(), DataAtom: tag}
}

func TestCondense_Empty(t *testing.T) {
	if got := Condense(nil); len(got) != 0 {
		t.Errorf("expected empty, got %d items", len(got))
	}
	only := []Item{&LineBreak{Count: 1, Node: el(atom.Div)}, &LineBreak{Count: 2, Node: el(atom.P)}}
	if got := Condense(only); len(got) != 0 {
		t.Errorf("expected line breaks alone to condense to nothing, got %d items", len(got))
	}
}

func TestCondense_LoneBreakElement(t *testing.T) {
	items := []Item{&Text{Content: "\n", Node: el(atom.Br)}}
	if got := Condense(items); len(got) != 0 {
		t.Errorf("expected lone <br> to condense to nothing, got %d items", len(got))
	}
}

func TestCondense_MergesAdjacentBreaks(t *testing.T) {
	p1, div, p2 := el(atom.P), el(atom.Div), el(atom.P)
	first := &LineBreak{Count: 1, Node: div, Offset: 3}
	items := []Item{
		&LineBreak{Count: 1, Node: div},
		&Text{Content: "foo"},
		first,
		&LineBreak{Count: 2, Node: p1, Offset: 1},
		&LineBreak{Count: 1, Node: p2},
		&Text{Content: "bar"},
		&LineBreak{Count: 2, Node: p2, Offset: 1},
	}
	got := Condense(items)
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	lb, ok := got[1].(*LineBreak)
	if !ok {
		t.Fatalf("expected line break in the middle, got %T", got[1])
	}
	if lb.Count != 2 {
		t.Errorf("expected merged count 2, got %d", lb.Count)
	}
	if lb.Node != div || lb.Offset != 3 {
		t.Errorf("expected merged break to keep the first position")
	}
	if first.Count != 1 {
		t.Errorf("expected input items untouched, got count %d", first.Count)
	}
	if Join(got) != "foo\n\nbar" {
		t.Errorf("expected %q, got %q", "foo\n\nbar", Join(got))
	}
}

func TestCondense_TrimsToText(t *testing.T) {
	items := []Item{
		&LineBreak{Count: 2, Node: el(atom.P)},
		&Text{Content: "a"},
		&Text{Content: "b"},
		&LineBreak{Count: 1, Node: el(atom.Div)},
	}
	got := Condense(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if Join(got) != "ab" {
		t.Errorf("expected %q, got %q", "ab", Join(got))
	}
}

func TestJoin_SkipsBoundaryBreaks(t *testing.T) {
	items := []Item{
		&LineBreak{Count: 2},
		&Text{Content: "a"},
		&LineBreak{Count: 1},
		&Text{Content: "b"},
		&LineBreak{Count: 2},
	}
	if got := Join(items); got != "a\nb" {
		t.Errorf("expected %q, got %q", "a\nb", got)
	}
}
