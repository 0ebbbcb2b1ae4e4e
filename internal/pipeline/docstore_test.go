package pipeline

import (
	"testing"

	"github.com/dgallion1/rendertext/internal/document"
)

func rendered(id, hash string) *Rendered {
	return &Rendered{Doc: &document.Document{ID: id, ContentHash: hash}}
}

func TestDocStore_PutGetByHash(t *testing.T) {
	s := NewDocStore()
	s.Put(rendered("a", "h1"))

	if s.Get("a") == nil {
		t.Fatal("expected document a")
	}
	if id, ok := s.ByHash("h1"); !ok || id != "a" {
		t.Errorf("ByHash(h1) = %q, %v", id, ok)
	}

	// re-rendering with new content drops the stale hash
	s.Put(rendered("a", "h2"))
	if _, ok := s.ByHash("h1"); ok {
		t.Error("expected old hash to be forgotten")
	}
	if id, _ := s.ByHash("h2"); id != "a" {
		t.Errorf("expected h2 to map to a, got %q", id)
	}
	if s.Len() != 1 || len(s.List()) != 1 {
		t.Errorf("expected one document, got %d", s.Len())
	}
}

func TestDocStore_Delete(t *testing.T) {
	s := NewDocStore()
	s.Put(rendered("a", "h"))

	if _, ok := s.Delete("missing"); ok {
		t.Error("expected delete of missing document to report false")
	}
	r, ok := s.Delete("a")
	if !ok || r.Doc.ID != "a" {
		t.Fatalf("Delete(a) = %v, %v", r, ok)
	}
	if s.Get("a") != nil {
		t.Error("expected document to be gone")
	}
	if _, ok := s.ByHash("h"); ok {
		t.Error("expected hash index entry to be gone")
	}
}
