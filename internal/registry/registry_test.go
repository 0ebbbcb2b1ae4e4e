package registry

import (
	"strings"
	"sync"
	"testing"

	"github.com/dgallion1/rendertext/internal/dom"
	"github.com/dgallion1/rendertext/internal/innertext"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func divs(t *testing.T, src string) []*html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if dom.Is(n, atom.Div) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func TestRegistry_StaleLogic(t *testing.T) {
	target := divs(t, `<div>Hello, world!</div>`)[0]
	r := New(4, innertext.Options{})

	v1 := r.Get(target)
	if r.Get(target) != v1 {
		t.Fatal("expected cached view on second Get")
	}
	if got, _ := v1.Value(); got != "Hello, world!" {
		t.Fatalf("expected %q, got %q", "Hello, world!", got)
	}

	target.FirstChild.Data = "Goodbye, world!"
	if r.Get(target) != v1 {
		t.Fatal("expected the stale view until marked")
	}

	r.MarkStale(target)
	v2 := r.Get(target)
	if v2 == v1 {
		t.Fatal("expected a new view after MarkStale")
	}
	if got, _ := v2.Value(); got != "Goodbye, world!" {
		t.Errorf("expected %q, got %q", "Goodbye, world!", got)
	}
}

func TestRegistry_EvictsOldestFirst(t *testing.T) {
	nodes := divs(t, `<div>a</div><div>b</div><div>c</div>`)
	r := New(2, innertext.Options{})

	first := r.Get(nodes[0])
	r.Get(nodes[1])
	r.Get(nodes[2])

	if r.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", r.Len())
	}
	if r.Get(nodes[0]) == first {
		t.Error("expected the oldest entry to have been evicted")
	}
	st := r.Stats()
	if st.Capacity != 2 || st.Misses != 4 || st.Hits != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestRegistry_HitsDoNotRefreshAge(t *testing.T) {
	nodes := divs(t, `<div>a</div><div>b</div><div>c</div>`)
	r := New(2, innertext.Options{})

	a := r.Get(nodes[0])
	b := r.Get(nodes[1])
	if r.Get(nodes[0]) != a {
		t.Fatal("expected a cache hit for the first node")
	}
	r.Get(nodes[2])

	if r.Get(nodes[1]) != b {
		t.Error("expected the second node to survive: reads must not reorder")
	}
	if r.Get(nodes[0]) == a {
		t.Error("expected the first inserted node to be evicted despite the hit")
	}
}

func TestRegistry_MarkStaleUnknownNode(t *testing.T) {
	r := New(0, innertext.Options{})
	r.MarkStale(&html.Node{Type: html.ElementNode, Data: "div"})
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}
	if r.Stats().Capacity != DefaultCapacity {
		t.Errorf("expected default capacity, got %d", r.Stats().Capacity)
	}
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	nodes := divs(t, `<div>one</div><div>two</div>`)
	r := New(8, innertext.Options{})

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := r.Get(nodes[i%2]).Clone()
			if _, err := v.Position(v.Len()); err != nil {
				t.Errorf("Position: %v", err)
			}
		}()
	}
	wg.Wait()

	if r.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", r.Len())
	}
}
