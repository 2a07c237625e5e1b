package extractor

import (
	"sync"
	"testing"
)

func TestStatsCounter_Average(t *testing.T) {
	var s statsCounter

	if got := s.Snapshot(); got.AverageTime != 0 {
		t.Errorf("AverageTime = %v with no successes, want 0", got.AverageTime)
	}

	s.RecordSuccess(100)
	s.RecordSuccess(300)
	s.RecordFailure()

	got := s.Snapshot()
	if got.Successful != 2 || got.Failed != 1 {
		t.Errorf("counts = %d/%d, want 2/1", got.Successful, got.Failed)
	}
	if got.TotalTime != 400 {
		t.Errorf("TotalTime = %v, want 400", got.TotalTime)
	}
	if got.AverageTime != 200 {
		t.Errorf("AverageTime = %v, want 200", got.AverageTime)
	}
}

func TestStatsCounter_Reset(t *testing.T) {
	var s statsCounter
	s.RecordSuccess(50)
	s.RecordFailure()
	s.Reset()

	got := s.Snapshot()
	if got.Successful != 0 || got.Failed != 0 || got.TotalTime != 0 || got.AverageTime != 0 {
		t.Errorf("Reset left counters populated: %+v", got)
	}
}

func TestStatsCounter_ConcurrentRecords(t *testing.T) {
	var s statsCounter
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.RecordSuccess(10)
		}()
		go func() {
			defer wg.Done()
			s.RecordFailure()
		}()
	}
	wg.Wait()

	got := s.Snapshot()
	if got.Successful != 100 || got.Failed != 100 {
		t.Errorf("counts = %d/%d after concurrent records, want 100/100", got.Successful, got.Failed)
	}
	if got.TotalTime != 1000 {
		t.Errorf("TotalTime = %v, want 1000", got.TotalTime)
	}
}
