package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/rendertext/internal/innertext"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "RENDERTEXT_API_KEY", "RENDER_MODE", "WORKER_COUNT", "CACHE_SIZE", "JOB_TTL", "STATS_WINDOW", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %s", cfg.LogLevel)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.RenderMode != innertext.ModeVisual {
		t.Errorf("expected visual mode, got %q", cfg.RenderMode)
	}
	if cfg.WorkerCount != 4 || cfg.CacheSize != 256 {
		t.Errorf("unexpected pool defaults: workers=%d cache=%d", cfg.WorkerCount, cfg.CacheSize)
	}
	if cfg.JobTTL != time.Hour || cfg.StatsWindow != time.Hour {
		t.Errorf("unexpected durations: ttl=%s window=%s", cfg.JobTTL, cfg.StatsWindow)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing API key to fail validation")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RENDERTEXT_API_KEY", "secret")
	t.Setenv("RENDER_MODE", "standards")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("JOB_TTL", "90s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("DEFAULT_CHUNK_SIZE", "not-a-number")

	cfg := Load()
	if cfg.RenderMode != innertext.ModeStandards {
		t.Errorf("expected standards mode, got %q", cfg.RenderMode)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected invalid worker count to fall back to 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 90*time.Second {
		t.Errorf("expected 90s TTL, got %s", cfg.JobTTL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.LogLevel)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
	if cfg.DefaultChunkSize != 1500 {
		t.Errorf("expected unparsable chunk size to use the default, got %d", cfg.DefaultChunkSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}

	cfg.DefaultChunkOverlap = cfg.DefaultChunkSize
	if err := cfg.Validate(); err == nil {
		t.Error("expected overlap >= size to fail validation")
	}
}
