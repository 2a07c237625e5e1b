// Package extractor captures HLS playlist URLs from embed pages. Pages are
// rendered in pooled headless-browser sessions; every outgoing network
// response is tested against the configured m3u8 patterns, and the first
// match wins a race against the per-attempt timeout and the page load.
package extractor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daddylive/m3u8hunt/internal/browser"
	"github.com/daddylive/m3u8hunt/internal/models"
	"github.com/daddylive/m3u8hunt/internal/utils"
)

// Extractor extracts m3u8 URLs from batches of embed pages. Create with New,
// release with Close. Extract is not safe to call re-entrantly on the same
// instance while a previous call is in flight.
type Extractor struct {
	cfg      models.ExtractConfig
	patterns models.PatternList
	stats    statsCounter

	mu      sync.Mutex // guards pool/engine lifecycle
	engine  browser.Engine
	pool    *browser.Pool
	monitor *browser.Monitor
	closed  bool
}

// New creates an extractor that launches its own headless Chrome on first
// use.
func New(cfg models.ExtractConfig) (*Extractor, error) {
	return newExtractor(cfg, nil)
}

// NewWithEngine creates an extractor bound to an externally provided engine.
// The engine is still closed by Close, together with the pool.
func NewWithEngine(cfg models.ExtractConfig, engine browser.Engine) (*Extractor, error) {
	return newExtractor(cfg, engine)
}

func newExtractor(cfg models.ExtractConfig, engine browser.Engine) (*Extractor, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extract config: %w", err)
	}
	patterns, err := models.CompilePatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	return &Extractor{
		cfg:      cfg,
		patterns: patterns,
		engine:   engine,
		monitor:  browser.NewMonitor(),
	}, nil
}

// Extract runs every URL through the pipeline and returns one result per
// input URL, in input order. After the first pass, failed URLs get exactly
// one retry pass when the configured retry count is positive; a successful
// retry replaces the failed entry in place. The only error returned is
// engine startup failure; every per-attempt failure is data in the results.
func (e *Extractor) Extract(ctx context.Context, urls []string) ([]models.ExtractionResult, error) {
	if len(urls) == 0 {
		return []models.ExtractionResult{}, nil
	}

	if err := e.ensurePool(ctx); err != nil {
		return nil, err
	}

	e.logf("extracting m3u8 from %d embeds", len(urls))
	results := e.runBatch(ctx, urls)

	if e.cfg.Retries > 0 {
		failed := make([]string, 0)
		for _, r := range results {
			if !r.Success {
				failed = append(failed, r.EmbedURL)
			}
		}

		if len(failed) > 0 && ctx.Err() == nil {
			e.logf("retrying %d failed extractions", len(failed))
			retried := e.runBatch(ctx, failed)

			rerun := make(map[string]models.ExtractionResult, len(retried))
			for _, r := range retried {
				if r.Success {
					rerun[r.EmbedURL] = r
				}
			}
			for i, r := range results {
				if !r.Success {
					if replacement, ok := rerun[r.EmbedURL]; ok {
						results[i] = replacement
					}
				}
			}
		}
	}

	stats := e.stats.Snapshot()
	e.logf("extraction complete: %d successful, %d failed, avg %.2fs",
		stats.Successful, stats.Failed, stats.AverageTime/1000)

	return results, nil
}

// Stats returns a snapshot of the running counters.
func (e *Extractor) Stats() models.Statistics {
	return e.stats.Snapshot()
}

// ResetStats zeroes the running counters.
func (e *Extractor) ResetStats() {
	e.stats.Reset()
}

// Close releases the session pool and the engine. Idempotent; a no-op when
// Extract was never called.
func (e *Extractor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.monitor.Stop()

	if e.pool != nil {
		pool := e.pool
		e.pool = nil
		return pool.Close()
	}
	if e.engine != nil {
		engine := e.engine
		e.engine = nil
		return engine.Close()
	}
	return nil
}

// ensurePool lazily launches the engine and pre-warms the session pool.
func (e *Extractor) ensurePool(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("extractor is closed")
	}
	if e.pool != nil {
		return nil
	}

	e.logf("initializing session pool (%d sessions)", e.cfg.Concurrency)
	e.monitor.WarnIfOversized(e.cfg.Concurrency)

	engine := e.engine
	if engine == nil {
		var err error
		engine, err = browser.Launch(browser.LaunchConfig{Headless: e.cfg.Headless})
		if err != nil {
			return err
		}
	}

	pool, err := browser.NewPool(ctx, engine, e.cfg.Concurrency)
	if err != nil {
		engine.Close()
		e.engine = nil
		return fmt.Errorf("%w: %v", browser.ErrEngineStartup, err)
	}

	e.engine = engine
	e.pool = pool
	e.monitor.Start(15 * time.Second)
	e.logf("session pool initialized with %d sessions", pool.Size())
	return nil
}

// extractOne runs a single navigate-and-observe attempt. Three signals race:
// first matching response, the per-attempt timeout, and navigation settling.
// Whichever resolves first ends the attempt; the others are cancelled before
// the session is reused. Every failure is captured as a result, never
// propagated.
func (e *Extractor) extractOne(ctx context.Context, embedURL string, sess browser.Session) (res models.ExtractionResult) {
	start := time.Now()
	res = models.ExtractionResult{
		ID:       uuid.New().String(),
		EmbedURL: embedURL,
	}

	concluded := false
	succeed := func(m3u8URL string) models.ExtractionResult {
		concluded = true
		res.M3U8URL = m3u8URL
		res.Success = true
		res.Time = elapsedMs(start)
		e.stats.RecordSuccess(res.Time)
		return res
	}
	fail := func(msg string) models.ExtractionResult {
		concluded = true
		res.Error = msg
		res.Time = elapsedMs(start)
		e.stats.RecordFailure()
		return res
	}

	// The engine bindings may panic on a crashed browser; that is a failed
	// attempt, not a failed batch.
	defer func() {
		if r := recover(); r != nil {
			utils.Errorf("panic during extraction [%s]: %v", embedURL, r)
			if !concluded {
				res = fail(fmt.Sprintf("browser crashed: %v", r))
			}
		}
	}()

	page, err := sess.NewPage(ctx)
	if err != nil {
		return fail(err.Error())
	}
	defer page.Close()

	navCtx, cancelNav := context.WithCancel(ctx)
	defer cancelNav()

	// Write-once: only the first matching observation is kept.
	found := make(chan string, 1)
	stop := page.OnResponse(func(u string) {
		if e.patterns.Match(u) {
			select {
			case found <- u:
			default:
			}
		}
	})
	defer stop()

	navDone := make(chan error, 1)
	go func() {
		navDone <- page.Navigate(navCtx, embedURL)
	}()

	deadline := time.NewTimer(e.cfg.Timeout)
	defer deadline.Stop()

	var graceTimer *time.Timer
	defer func() {
		if graceTimer != nil {
			graceTimer.Stop()
		}
	}()
	var grace <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return fail(ctx.Err().Error())

		case u := <-found:
			return succeed(u)

		case <-deadline.C:
			return fail("m3u8 URL not found within timeout")

		case err := <-navDone:
			if err != nil {
				return fail(err.Error())
			}
			// The page settled without a match. The playlist is often
			// requested by the player after the load event, so keep the
			// observer armed for a grace window bounded by the remaining
			// timeout budget.
			navDone = nil
			wait := e.cfg.Grace
			if remaining := e.cfg.Timeout - time.Since(start); wait > remaining {
				wait = remaining
			}
			if wait <= 0 {
				return fail("m3u8 URL not found after page load")
			}
			graceTimer = time.NewTimer(wait)
			grace = graceTimer.C

		case <-grace:
			return fail("m3u8 URL not found after page load")
		}
	}
}

// logf emits progress lines in verbose mode.
func (e *Extractor) logf(format string, args ...interface{}) {
	if e.cfg.Verbose {
		utils.Infof(format, args...)
	}
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
