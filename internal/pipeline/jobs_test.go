package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	if ContentHashHex([]byte("aaa")) == ContentHashHex([]byte("bbb")) {
		t.Error("expected different hashes for different inputs")
	}
}

func TestNewJob(t *testing.T) {
	data := []byte("<p>hi</p>")
	a, err := NewJob("", "a.html", "", data)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	b, err := NewJob("explicit", "b.html", "B", data)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID, b.ID)
	}
	if a.DocID != ContentHashHex(data)[:16] {
		t.Errorf("expected doc ID derived from content, got %q", a.DocID)
	}
	if b.DocID != "explicit" || b.Title != "B" {
		t.Errorf("expected explicit doc ID and title, got %q %q", b.DocID, b.Title)
	}
	if a.Status != StatusQueued {
		t.Errorf("expected queued, got %q", a.Status)
	}
	if string(a.FileData()) != string(data) {
		t.Errorf("expected file data to be kept")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusLoading, "loading"},
		{StatusRendering, "rendering"},
		{StatusChunking, "chunking"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJobStatus_Terminal(t *testing.T) {
	tests := map[JobStatus]bool{
		StatusQueued:     false,
		StatusLoading:    false,
		StatusRendering:  false,
		StatusChunking:   false,
		StatusCompleted:  true,
		StatusFailed:     true,
		StatusDupSkipped: true,
	}
	for s, want := range tests {
		if got := s.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", s, got, want)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("load: bad zip")
	job.AddError("second")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "load: bad zip" {
		t.Errorf("expected first error %q, got %q", "load: bad zip", snap.Progress.Errors[0])
	}

	// the snapshot must not alias the job's slice
	snap.Progress.Errors[0] = "changed"
	if job.Snapshot().Progress.Errors[0] != "load: bad zip" {
		t.Error("snapshot shares storage with the job")
	}
}

func TestJob_Progress(t *testing.T) {
	job := &Job{ID: "progress", UpdatedAt: time.Now()}
	job.SetRendered(7, 120, 1500*time.Microsecond)
	job.SetTotalChunks(3)
	job.SetLoaded("abc", "Title")

	snap := job.Snapshot()
	if snap.Progress.Items != 7 || snap.Progress.TextLength != 120 {
		t.Errorf("unexpected render progress: %+v", snap.Progress)
	}
	if snap.Progress.RenderMs != 1 {
		t.Errorf("expected 1ms, got %d", snap.Progress.RenderMs)
	}
	if snap.Progress.TotalChunks != 3 {
		t.Errorf("expected 3 chunks, got %d", snap.Progress.TotalChunks)
	}
	if snap.ContentHash != "abc" || snap.Title != "Title" {
		t.Errorf("unexpected load info: %q %q", snap.ContentHash, snap.Title)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Put(&Job{ID: "store-1", UpdatedAt: time.Now()})

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(time.Minute)
	store.Put(&Job{ID: "old", UpdatedAt: time.Now().Add(-2 * time.Minute)})
	store.Put(&Job{ID: "new", UpdatedAt: time.Now()})

	if n := store.Cleanup(); n != 1 {
		t.Errorf("expected 1 job removed, got %d", n)
	}
	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job left, got %d", store.Len())
	}
}
