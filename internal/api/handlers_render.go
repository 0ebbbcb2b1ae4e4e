package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dgallion1/rendertext/internal/document"
	"github.com/dgallion1/rendertext/internal/innertext"
	"github.com/dgallion1/rendertext/internal/loader"
)

// handleRender renders an HTML body, or an uploaded file of any supported
// format, synchronously.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	mode := s.cfg.RenderMode
	if m := r.URL.Query().Get("mode"); m != "" {
		if m != string(innertext.ModeVisual) && m != string(innertext.ModeStandards) {
			jsonError(w, fmt.Sprintf("unknown mode %q", m), http.StatusBadRequest)
			return
		}
		mode = innertext.Mode(m)
	}

	doc, status, err := s.loadRequestDocument(w, r)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	start := time.Now()
	view := innertext.New(doc.Body(), innertext.Options{Mode: mode, Logger: s.log})
	elapsed := time.Since(start)
	s.orchestrator.Stats().Record(elapsed, len(view.Items()))

	text, valid := view.Value()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"title":     doc.Title,
		"mode":      mode,
		"text":      text,
		"valid":     valid,
		"length":    view.Len(),
		"items":     itemsDTO(view.Items()),
		"render_ms": float64(elapsed) / float64(time.Millisecond),
	})
}

// loadRequestDocument reads the document to render from a multipart "file"
// field or, for any other content type, the raw body parsed as HTML.
func (s *Server) loadRequestDocument(w http.ResponseWriter, r *http.Request) (*document.Document, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("failed to read body: %w", err)
		}
		doc, err := (&loader.HTMLLoader{}).Load(bytes.NewReader(data), "request.html")
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid html: %w", err)
		}
		return doc, http.StatusOK, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	data, filename, status, err := s.readUpload(r)
	if err != nil {
		return nil, status, err
	}
	l, err := loader.ForFile(filename, loader.Options{PdftotextFallback: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	doc, err := l.Load(bytes.NewReader(data), filename)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, fmt.Errorf("load %s: %w", filepath.Ext(filename), err)
	}
	return doc, http.StatusOK, nil
}
