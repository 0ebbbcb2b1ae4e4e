package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/rendertext/internal/document"
)

// Rendered is a document with the outcome of its render.
type Rendered struct {
	Doc        *document.Document
	Text       string
	Length     int
	Chunks     []document.Chunk
	RenderedAt time.Time
}

// DocStore holds rendered documents in memory, indexed by ID and content
// hash.
type DocStore struct {
	mu     sync.RWMutex
	docs   map[string]*Rendered
	byHash map[string]string
}

func NewDocStore() *DocStore {
	return &DocStore{
		docs:   make(map[string]*Rendered),
		byHash: make(map[string]string),
	}
}

// Put stores r under its document ID, replacing any earlier render.
func (s *DocStore) Put(r *Rendered) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.docs[r.Doc.ID]; ok && old.Doc.ContentHash != r.Doc.ContentHash {
		delete(s.byHash, old.Doc.ContentHash)
	}
	s.docs[r.Doc.ID] = r
	if r.Doc.ContentHash != "" {
		s.byHash[r.Doc.ContentHash] = r.Doc.ID
	}
}

func (s *DocStore) Get(id string) *Rendered {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[id]
}

// ByHash returns the ID of the document with the given content hash.
func (s *DocStore) ByHash(hash string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byHash[hash]
	return id, ok
}

// List returns the stored documents in no particular order.
func (s *DocStore) List() []*Rendered {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Rendered, 0, len(s.docs))
	for _, r := range s.docs {
		out = append(out, r)
	}
	return out
}

// Delete removes a document, reporting whether it existed.
func (s *DocStore) Delete(id string) (*Rendered, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.docs[id]
	if !ok {
		return nil, false
	}
	delete(s.docs, id)
	if s.byHash[r.Doc.ContentHash] == id {
		delete(s.byHash, r.Doc.ContentHash)
	}
	return r, true
}

func (s *DocStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
