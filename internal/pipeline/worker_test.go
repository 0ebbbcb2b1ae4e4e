package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/rendertext/internal/chunker"
	"github.com/dgallion1/rendertext/internal/config"
	"github.com/dgallion1/rendertext/internal/innertext"
	"github.com/dgallion1/rendertext/internal/loader"
	"github.com/dgallion1/rendertext/internal/registry"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker() (*Worker, *DocStore, *Stats) {
	docs := NewDocStore()
	stats := NewStats(time.Hour)
	views := registry.New(8, innertext.Options{Logger: discard()})
	cfg := chunker.Config{ChunkSize: 50, ChunkOverlap: 5, MinChunk: 1}
	return NewWorker(views, docs, stats, discard(), cfg, loader.Options{}), docs, stats
}

func mustJob(t *testing.T, docID, filename, body string) *Job {
	t.Helper()
	job, err := NewJob(docID, filename, "", []byte(body))
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	return job
}

func TestWorker_RendersAndChunks(t *testing.T) {
	w, docs, stats := newTestWorker()
	job := mustJob(t, "doc-1", "notes.html",
		`<html><head><title>Notes</title><style>.x{display:none}</style></head>`+
			`<body><h1>Intro</h1><p>First   paragraph.</p><p class="x">hidden</p><p>Second.</p></body></html>`)

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Title != "Notes" {
		t.Errorf("expected title from <title>, got %q", snap.Title)
	}
	if job.FileData() != nil {
		t.Error("expected upload to be released after loading")
	}

	r := docs.Get("doc-1")
	if r == nil {
		t.Fatal("expected rendered document in store")
	}
	want := "Intro\n\nFirst paragraph.\n\nSecond."
	if r.Text != want {
		t.Errorf("rendered text = %q, want %q", r.Text, want)
	}
	if r.Length != len(want) || snap.Progress.TextLength != len(want) {
		t.Errorf("expected length %d, got %d / %d", len(want), r.Length, snap.Progress.TextLength)
	}
	if len(r.Chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	if id, ok := docs.ByHash(r.Doc.ContentHash); !ok || id != "doc-1" {
		t.Errorf("expected hash index to point at doc-1, got %q %v", id, ok)
	}
	if stats.Snapshot().Count != 1 {
		t.Errorf("expected one render sample, got %d", stats.Snapshot().Count)
	}
}

func TestWorker_DuplicateContentSkipped(t *testing.T) {
	w, docs, _ := newTestWorker()
	body := "one paragraph\n\nanother one\n"

	first := mustJob(t, "first", "a.txt", body)
	w.Process(context.Background(), first)
	if s := first.Snapshot().Status; s != StatusCompleted {
		t.Fatalf("expected first job completed, got %q", s)
	}

	second := mustJob(t, "second", "b.txt", body)
	w.Process(context.Background(), second)
	snap := second.Snapshot()
	if snap.Status != StatusDupSkipped {
		t.Fatalf("expected duplicate_skipped, got %q", snap.Status)
	}
	if snap.DocID != "first" {
		t.Errorf("expected duplicate to point at first, got %q", snap.DocID)
	}
	if docs.Len() != 1 {
		t.Errorf("expected one stored document, got %d", docs.Len())
	}
}

func TestWorker_UnsupportedFormatFails(t *testing.T) {
	w, _, _ := newTestWorker()
	job := mustJob(t, "x", "image.png", "not really")
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "loading" {
		t.Fatalf("expected failed in loading, got %q / %q", snap.Status, snap.Phase)
	}
	if len(snap.Progress.Errors) != 1 || !strings.Contains(snap.Progress.Errors[0], "unsupported") {
		t.Errorf("unexpected errors: %v", snap.Progress.Errors)
	}
}

func TestOrchestrator_ProcessesSubmittedJobs(t *testing.T) {
	cfg := config.Config{
		WorkerCount:         2,
		MaxQueueSize:        4,
		CacheSize:           4,
		DefaultChunkSize:    100,
		DefaultChunkOverlap: 10,
		JobTTL:              time.Hour,
		StatsWindow:         time.Hour,
	}
	o := NewOrchestrator(cfg, discard())
	o.Start(context.Background())
	defer o.Stop()

	job := mustJob(t, "md", "readme.md", "# Title\n\nSome text here.\n")
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !job.Snapshot().Status.Terminal() {
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish, status %q", job.Snapshot().Status)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if s := job.Snapshot().Status; s != StatusCompleted {
		t.Fatalf("expected completed, got %q", s)
	}
	if o.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable by ID")
	}
	r := o.Docs().Get("md")
	if r == nil || r.Text != "Title\n\nSome text here." {
		t.Fatalf("unexpected rendered document: %+v", r)
	}
	if o.Views().Len() != 1 {
		t.Errorf("expected the view to be cached, got %d entries", o.Views().Len())
	}
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	o := NewOrchestrator(config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}, discard())
	o.Start(context.Background())
	o.Stop()
	o.Stop()

	if err := o.Submit(mustJob(t, "", "a.txt", "x")); err == nil {
		t.Error("expected submit on a stopped pipeline to fail")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// not started, so nothing drains the queue
	o := NewOrchestrator(config.Config{MaxQueueSize: 1, JobTTL: time.Hour}, discard())

	if err := o.Submit(mustJob(t, "", "a.txt", "a")); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	job := mustJob(t, "", "b.txt", "b")
	if err := o.Submit(job); err == nil {
		t.Fatal("expected queue full error")
	}
	if s := job.Snapshot().Status; s != StatusFailed {
		t.Errorf("expected failed status, got %q", s)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected depth 1, got %d", o.QueueDepth())
	}
}
