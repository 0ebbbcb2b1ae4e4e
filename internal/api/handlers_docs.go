package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/rendertext/internal/dom"
	"github.com/dgallion1/rendertext/internal/innertext"
	"github.com/dgallion1/rendertext/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists rendered documents, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	all := s.orchestrator.Docs().List()
	slices.SortFunc(all, func(a, b *pipeline.Rendered) int {
		return b.RenderedAt.Compare(a.RenderedAt)
	})

	docs := make([]map[string]any, 0, len(all))
	for _, d := range all {
		docs = append(docs, map[string]any{
			"doc_id":       d.Doc.ID,
			"title":        d.Doc.Title,
			"filename":     d.Doc.Filename,
			"length":       d.Length,
			"total_chunks": len(d.Chunks),
			"rendered_at":  d.RenderedAt.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	d, ok := s.document(w, r)
	if !ok {
		return
	}
	resp := map[string]any{
		"doc_id":       d.Doc.ID,
		"title":        d.Doc.Title,
		"filename":     d.Doc.Filename,
		"content_hash": d.Doc.ContentHash,
		"text":         d.Text,
		"length":       d.Length,
		"chunks":       chunksDTO(d.Chunks),
		"rendered_at":  d.RenderedAt.Format(time.RFC3339),
	}
	if r.URL.Query().Get("items") == "true" {
		resp["items"] = itemsDTO(s.orchestrator.Views().Get(d.Doc.Body()).Items())
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	d, ok := s.orchestrator.Docs().Delete(docID)
	if !ok {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	s.orchestrator.Views().MarkStale(d.Doc.Body())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doc_id": docID, "deleted": true})
}

// handleRange maps [start, end) of the rendered text to a DOM range.
func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	d, ok := s.document(w, r)
	if !ok {
		return
	}
	start, err := intParam(r, "start")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	end, err := intParam(r, "end")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// the cached view is shared with other requests; query a private cursor
	view := s.orchestrator.Views().Get(d.Doc.Body()).Clone()
	rng, err := view.Range(start, end)
	if err != nil {
		s.offsetError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": d.Doc.ID,
		"start":  start,
		"end":    end,
		"range":  rangeOf(rng),
	})
}

// handlePosition maps a single rendered offset to a DOM boundary point.
func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	d, ok := s.document(w, r)
	if !ok {
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := s.orchestrator.Views().Get(d.Doc.Body()).Clone()
	p, err := view.Position(offset)
	if err != nil {
		s.offsetError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": d.Doc.ID,
		"offset": offset,
		"point":  pointOf(p),
	})
}

// handleNode renders the subtree at a node path such as "/0/1/2", the form
// node references take in range and position responses.
func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	d, ok := s.document(w, r)
	if !ok {
		return
	}
	path, err := dom.ParsePath(r.URL.Query().Get("path"))
	if err != nil {
		jsonError(w, "path must be slash separated child indexes", http.StatusBadRequest)
		return
	}
	node := dom.Resolve(d.Doc.Root, path)
	if node == nil {
		jsonError(w, "node not found", http.StatusNotFound)
		return
	}

	view := s.orchestrator.Views().Get(node).Clone()
	text, valid := view.Value()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": d.Doc.ID,
		"node":   refOf(node),
		"text":   text,
		"valid":  valid,
		"length": view.Len(),
		"items":  itemsDTO(view.Items()),
	})
}

// handleMarkStale drops the document's cached view so the next query
// collects it again.
func (s *Server) handleMarkStale(w http.ResponseWriter, r *http.Request) {
	d, ok := s.document(w, r)
	if !ok {
		return
	}
	s.orchestrator.Views().MarkStale(d.Doc.Body())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doc_id": d.Doc.ID, "stale": true})
}

func (s *Server) handleRenderStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"mode":        s.cfg.RenderMode,
		"render":      s.orchestrator.Stats().Snapshot(),
		"cache":       s.orchestrator.Views().Stats(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"documents":   s.orchestrator.Docs().Len(),
	})
}

func (s *Server) document(w http.ResponseWriter, r *http.Request) (*pipeline.Rendered, bool) {
	d := s.orchestrator.Docs().Get(chi.URLParam(r, "docID"))
	if d == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return nil, false
	}
	return d, true
}

func (s *Server) offsetError(w http.ResponseWriter, err error) {
	var rangeErr *innertext.RangeError
	if errors.As(err, &rangeErr) {
		jsonError(w, rangeErr.Error(), http.StatusBadRequest)
		return
	}
	s.log.Error("offset mapping failed", "error", err)
	jsonError(w, "internal error", http.StatusInternalServerError)
}

func intParam(r *http.Request, name string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, fmt.Errorf("%s query parameter is required", name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
