package extractor

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/daddylive/m3u8hunt/internal/models"
)

// runBatch partitions urls into consecutive groups of Concurrency and
// dispatches each group's attempts concurrently, item i on session i mod
// pool size. A group must fully resolve before the next one starts, which
// caps peak live attempts at exactly Concurrency. Output order equals input
// order.
func (e *Extractor) runBatch(ctx context.Context, urls []string) []models.ExtractionResult {
	results := make([]models.ExtractionResult, len(urls))
	size := e.cfg.Concurrency
	groups := (len(urls) + size - 1) / size

	var bar *progressbar.ProgressBar
	if !e.cfg.Verbose && len(urls) > 1 && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(urls),
			progressbar.OptionSetDescription("extracting"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
	}

	for g := 0; g < groups; g++ {
		lo := g * size
		hi := lo + size
		if hi > len(urls) {
			hi = len(urls)
		}
		group := urls[lo:hi]
		groupStart := time.Now()

		e.logf("processing group %d/%d (%d embeds)", g+1, groups, len(group))

		var wg sync.WaitGroup
		for i, u := range group {
			wg.Add(1)
			go func(i int, u string) {
				defer wg.Done()
				results[lo+i] = e.extractOne(ctx, u, e.pool.Session(i))
				if bar != nil {
					bar.Add(1)
				}
			}(i, u)
		}
		wg.Wait()

		succeeded := 0
		for _, r := range results[lo:hi] {
			if r.Success {
				succeeded++
			}
		}
		e.logf("group %d/%d completed in %.1fs - %d/%d successful",
			g+1, groups, time.Since(groupStart).Seconds(), succeeded, len(group))
	}

	if bar != nil {
		bar.Finish()
	}
	return results
}
