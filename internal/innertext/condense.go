package innertext

import (
	"github.com/dgallion1/rendertext/internal/dom"
	"golang.org/x/net/html/atom"
)

// Condense folds runs of adjacent line breaks into the first of them,
// keeping the largest count, and trims the result to the span between the
// first and last text items. The input is left untouched.
func Condense(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		if t, ok := items[0].(*Text); ok && dom.Is(t.Node, atom.Br) {
			return nil
		}
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		lb, ok := it.(*LineBreak)
		if !ok {
			out = append(out, it)
			continue
		}
		if n := len(out); n > 0 {
			if prev, ok := out[n-1].(*LineBreak); ok {
				if lb.Count > prev.Count {
					merged := *prev
					merged.Count = lb.Count
					out[n-1] = &merged
				}
				continue
			}
		}
		out = append(out, it)
	}

	first, last := -1, -1
	for i, it := range out {
		if _, ok := it.(*Text); ok {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return nil
	}
	return out[first : last+1]
}
