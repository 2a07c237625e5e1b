package extractor

import (
	"sync"

	"github.com/daddylive/m3u8hunt/internal/models"
)

// statsCounter aggregates attempt outcomes across the whole process. Every
// concluded attempt, retries included, records exactly once.
type statsCounter struct {
	mu         sync.Mutex
	successful int
	failed     int
	totalTime  float64
}

func (s *statsCounter) RecordSuccess(elapsedMs float64) {
	s.mu.Lock()
	s.successful++
	s.totalTime += elapsedMs
	s.mu.Unlock()
}

func (s *statsCounter) RecordFailure() {
	s.mu.Lock()
	s.failed++
	s.mu.Unlock()
}

// Snapshot returns a copy of the counters. The average is 0, never NaN,
// while there are no successes.
func (s *statsCounter) Snapshot() models.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.Statistics{
		Successful: s.successful,
		Failed:     s.failed,
		TotalTime:  s.totalTime,
	}
	if s.successful > 0 {
		stats.AverageTime = s.totalTime / float64(s.successful)
	}
	return stats
}

func (s *statsCounter) Reset() {
	s.mu.Lock()
	s.successful = 0
	s.failed = 0
	s.totalTime = 0
	s.mu.Unlock()
}
