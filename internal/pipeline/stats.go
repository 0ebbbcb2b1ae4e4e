package pipeline

import (
	"slices"
	"sync"
	"time"
)

type renderSample struct {
	at      time.Time
	elapsed time.Duration
	items   int
}

// StatsSnapshot aggregates the render samples inside the window. Durations
// are reported in fractional milliseconds since most renders finish well
// under one.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
	AvgItems float64 `json:"avg_items"`
}

// Stats tracks render latencies within a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []renderSample
	window  time.Duration
	now     func() time.Time
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		samples: make([]renderSample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one render that took elapsed and produced items items.
func (s *Stats) Record(elapsed time.Duration, items int) {
	if elapsed < 0 {
		elapsed = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, renderSample{at: now, elapsed: elapsed, items: items})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	values := make([]float64, 0, len(s.samples))
	var sum float64
	var items int
	for _, sm := range s.samples {
		ms := float64(sm.elapsed) / float64(time.Millisecond)
		values = append(values, ms)
		sum += ms
		items += sm.items
	}
	slices.Sort(values)

	n := float64(len(values))
	return StatsSnapshot{
		Count:    len(values),
		MinMs:    values[0],
		MaxMs:    values[len(values)-1],
		AvgMs:    sum / n,
		P50Ms:    percentile(values, 50),
		P95Ms:    percentile(values, 95),
		P99Ms:    percentile(values, 99),
		AvgItems: float64(items) / n,
	}
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm renderSample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sorted []float64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return sorted[0]
	case pct >= 100:
		return sorted[len(sorted)-1]
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}
