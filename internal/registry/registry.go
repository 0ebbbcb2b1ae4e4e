// Package registry caches rendered-text views per DOM node.
package registry

import (
	"io"
	"log/slog"
	"sync"

	"github.com/dgallion1/rendertext/internal/dom"
	"github.com/dgallion1/rendertext/internal/innertext"
	"github.com/elliotchance/orderedmap/v3"
	"golang.org/x/net/html"
)

// DefaultCapacity bounds a Registry created with a non-positive capacity.
const DefaultCapacity = 256

// Registry maps nodes to their most recent View. Entries are only dropped
// by MarkStale or, once the registry is full, oldest first. It never
// notices tree mutations on its own.
//
// Registry is safe for concurrent use. The views it hands out are not:
// goroutines that query the same view concurrently must Clone it.
type Registry struct {
	opts     innertext.Options
	capacity int
	log      *slog.Logger

	mu      sync.Mutex
	// insertion ordered; Get does not reorder
	views *orderedmap.OrderedMap[*html.Node, *innertext.View]

	hits   int64
	misses int64
}

// New creates a Registry that builds views with opts.
func New(capacity int, opts innertext.Options) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		opts:     opts,
		capacity: capacity,
		log:      log.With("component", "registry"),
		views:    orderedmap.NewOrderedMap[*html.Node, *innertext.View](),
	}
}

// Get returns the cached view for node, building it on a miss.
func (r *Registry) Get(node *html.Node) *innertext.View {
	r.mu.Lock()
	if v, ok := r.views.Get(node); ok {
		r.hits++
		r.mu.Unlock()
		return v
	}
	r.misses++
	r.mu.Unlock()

	view := innertext.New(node, r.opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	// another goroutine may have built it meanwhile; keep the first
	if v, ok := r.views.Get(node); ok {
		return v
	}
	r.views.Set(node, view)
	for r.views.Len() > r.capacity {
		oldest := r.views.Front().Key
		r.views.Delete(oldest)
		r.log.Debug("evicted view", "node", dom.NodeName(oldest))
	}
	return view
}

// MarkStale drops node's cached view so the next Get rebuilds it.
func (r *Registry) MarkStale(node *html.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views.Delete(node)
}

// Len returns the number of cached views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views.Len()
}

// Stats is a snapshot of cache usage.
type Stats struct {
	Entries  int   `json:"entries"`
	Capacity int   `json:"capacity"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

// Stats returns current cache usage.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Entries:  r.views.Len(),
		Capacity: r.capacity,
		Hits:     r.hits,
		Misses:   r.misses,
	}
}
