package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/rendertext/internal/chunker"
	"github.com/dgallion1/rendertext/internal/dom"
	"github.com/dgallion1/rendertext/internal/loader"
	"github.com/dgallion1/rendertext/internal/registry"
)

// Worker processes a single document job.
type Worker struct {
	views    *registry.Registry
	docs     *DocStore
	stats    *Stats
	log      *slog.Logger
	chunkCfg chunker.Config
	loadOpts loader.Options
}

func NewWorker(views *registry.Registry, docs *DocStore, stats *Stats, log *slog.Logger, chunkCfg chunker.Config, loadOpts loader.Options) *Worker {
	return &Worker{
		views:    views,
		docs:     docs,
		stats:    stats,
		log:      log,
		chunkCfg: chunkCfg,
		loadOpts: loadOpts,
	}
}

// Process runs the full render pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Load
	job.SetStatus(StatusLoading, "loading")
	l, err := loader.ForFile(job.Filename, w.loadOpts)
	if err != nil {
		w.fail(log, job, "loading", "unsupported format", err)
		return
	}
	doc, err := l.Load(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		w.fail(log, job, "loading", "load failed", fmt.Errorf("load: %w", err))
		return
	}
	job.releaseFileData()

	doc.ID = job.DocID
	if job.Title != "" {
		doc.Title = job.Title
	}
	// Hash the body text so the same content uploaded under another name
	// or in another format is recognised.
	doc.ContentHash = ContentHashHex([]byte(dom.TextContent(doc.Body())))
	job.SetLoaded(doc.ContentHash, doc.Title)

	if existing, ok := w.docs.ByHash(doc.ContentHash); ok && existing != doc.ID {
		log.Info("duplicate document, skipping", "existing_doc_id", existing)
		job.SetDocID(existing)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}
	if ctx.Err() != nil {
		w.fail(log, job, "loading", "cancelled", ctx.Err())
		return
	}

	// Phase 2: Render
	job.SetStatus(StatusRendering, "rendering")
	root := doc.Body()
	start := time.Now()
	// The registry's copy may be queried by API handlers; this goroutine
	// works on its own cursor.
	view := w.views.Get(root).Clone()
	elapsed := time.Since(start)
	w.stats.Record(elapsed, len(view.Items()))
	job.SetRendered(len(view.Items()), view.Len(), elapsed)
	log.Info("rendered document", "items", len(view.Items()), "length", view.Len(), "elapsed", elapsed)

	// Phase 3: Chunk
	job.SetStatus(StatusChunking, "chunking")
	chunks, err := chunker.Chunk(view, w.chunkCfg)
	if err != nil {
		w.fail(log, job, "chunking", "chunking failed", err)
		return
	}
	job.SetTotalChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks))

	w.docs.Put(&Rendered{
		Doc:        doc,
		Text:       view.String(),
		Length:     view.Len(),
		Chunks:     chunks,
		RenderedAt: time.Now(),
	})
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase, msg string, err error) {
	log.Error(msg, "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}
