package browser

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Resource heuristics. A headless Chrome context costs on the order of
// 150MB once a page is rendering; below 500MB free the whole host starts
// swapping and attempt timings become meaningless.
const (
	sessionMemoryEstimate = 150 * 1024 * 1024
	memoryReserve         = 1024 * 1024 * 1024
	lowMemoryThreshold    = 500 * 1024 * 1024
	cpuWarnThreshold      = 90.0
)

// Monitor samples host memory and CPU. It is advisory only: the pool always
// holds exactly the configured number of sessions, so the monitor warns
// instead of resizing.
type Monitor struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

// NewMonitor creates a resource monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// SessionBudget estimates how many concurrent sessions the host can afford,
// derived from available memory after a safety reserve and bounded by CPU
// count. Returns at least 1.
func (m *Monitor) SessionBudget() int {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Warn().Err(err).Msg("reading system memory failed, skipping session budget check")
		return runtime.NumCPU()
	}

	budget := int((int64(vm.Available) - memoryReserve) / sessionMemoryEstimate)
	if cpus := runtime.NumCPU() * 2; budget > cpus {
		budget = cpus
	}
	if budget < 1 {
		budget = 1
	}
	return budget
}

// WarnIfOversized logs a warning when the requested pool size exceeds the
// current session budget.
func (m *Monitor) WarnIfOversized(poolSize int) {
	if budget := m.SessionBudget(); poolSize > budget {
		log.Warn().
			Int("concurrency", poolSize).
			Int("session_budget", budget).
			Msg("configured concurrency exceeds what this host can comfortably run")
	}
}

// Start launches a background sampler that logs memory and CPU pressure
// while a batch is running. Idempotent.
func (m *Monitor) Start(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancelFunc != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFunc = cancel
	go m.sampleLoop(ctx, interval)
}

// Stop halts the background sampler. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancelFunc != nil {
		m.cancelFunc()
		m.cancelFunc = nil
	}
}

func (m *Monitor) sampleLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if vm, err := mem.VirtualMemory(); err == nil && vm.Available < lowMemoryThreshold {
				log.Warn().
					Uint64("available_mb", vm.Available/(1024*1024)).
					Msg("low system memory, attempts may slow down or time out")
			}

			// 100ms sample keeps the loop from stalling the ticker.
			if pcts, err := cpu.Percent(100*time.Millisecond, false); err == nil &&
				len(pcts) > 0 && pcts[0] > cpuWarnThreshold {
				log.Warn().Float64("cpu_pct", pcts[0]).Msg("high CPU load")
			}
		}
	}
}
