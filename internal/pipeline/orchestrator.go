package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/rendertext/internal/chunker"
	"github.com/dgallion1/rendertext/internal/config"
	"github.com/dgallion1/rendertext/internal/innertext"
	"github.com/dgallion1/rendertext/internal/loader"
	"github.com/dgallion1/rendertext/internal/registry"
)

// cleanupInterval is how often expired jobs are swept.
const cleanupInterval = 5 * time.Minute

// Orchestrator manages the document render pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	views    *registry.Registry
	docs     *DocStore
	stats    *Stats
	log      *slog.Logger
	cfg      config.Config
	chunkCfg chunker.Config

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Workers run once Start is called.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		views: registry.New(cfg.CacheSize, innertext.Options{
			Mode:   cfg.RenderMode,
			Logger: log,
		}),
		docs:  NewDocStore(),
		stats: NewStats(cfg.StatsWindow),
		log:   log.With("component", "pipeline"),
		cfg:   cfg,
		chunkCfg: chunker.Config{
			ChunkSize:    cfg.DefaultChunkSize,
			ChunkOverlap: cfg.DefaultChunkOverlap,
			MinChunk:     100,
		},
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	loadOpts := loader.Options{PdftotextFallback: o.cfg.PDFFallbackPdftotext}
	for i := range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.views, o.docs, o.stats, o.log.With("worker", i), o.chunkCfg, loadOpts)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.jobs.Cleanup(); n > 0 {
					o.log.Debug("expired jobs removed", "count", n)
				}
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return fmt.Errorf("pipeline is stopped")
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Docs returns the store of rendered documents.
func (o *Orchestrator) Docs() *DocStore {
	return o.docs
}

// Views returns the view registry shared by workers and API handlers.
func (o *Orchestrator) Views() *registry.Registry {
	return o.views
}

// Stats returns the render latency tracker.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}
