package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/daddylive/m3u8hunt/internal/models"
)

// Reporter writes extraction reports to disk.
type Reporter struct {
	outputDir string
}

// NewReporter creates a reporter rooted at outputDir.
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// ExtractionReport is the on-disk report shape.
type ExtractionReport struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Config      models.ExtractConfig     `json:"config"`
	Stats       models.Statistics        `json:"stats"`
	Results     []models.ExtractionResult `json:"results"`
}

// GenerateReport writes the full report plus a streams-only file holding
// just the captured m3u8 URLs, one per line, ready to feed a player or
// downloader.
func (r *Reporter) GenerateReport(
	results []models.ExtractionResult,
	stats models.Statistics,
	config models.ExtractConfig,
) error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	report := ExtractionReport{
		GeneratedAt: time.Now(),
		Config:      config,
		Stats:       stats,
		Results:     results,
	}

	if err := r.saveJSON("extraction_report.json", report); err != nil {
		return err
	}

	streams := make([]byte, 0, 64*len(results))
	for _, res := range results {
		if res.Success {
			streams = append(streams, res.M3U8URL...)
			streams = append(streams, '\n')
		}
	}
	streamsPath := filepath.Join(r.outputDir, "streams.txt")
	if err := os.WriteFile(streamsPath, streams, 0644); err != nil {
		return fmt.Errorf("write streams file: %w", err)
	}

	Infof("report written to %s", r.outputDir)
	return nil
}

func (r *Reporter) saveJSON(filename string, data interface{}) error {
	path := filepath.Join(r.outputDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	Debugf("saved report: %s", path)
	return nil
}
