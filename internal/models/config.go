package models

import (
	"fmt"
	"time"
)

// Default extraction settings.
const (
	DefaultTimeout     = 20 * time.Second
	DefaultGrace       = 3 * time.Second
	DefaultConcurrency = 10
	DefaultRetries     = 1
)

// DefaultPatterns are the m3u8 URL patterns tested against every observed
// network response, in order. Most embed players request either a
// playlist.m3u8 or an index.m3u8; the bare suffix is the catch-all.
var DefaultPatterns = []string{
	`playlist\.m3u8`,
	`index\.m3u8`,
	`\.m3u8`,
}

// ExtractConfig configures an extraction run. It is read-only once the
// extractor has been created.
type ExtractConfig struct {
	// Timeout is the per-attempt wall-clock budget for finding an m3u8 URL.
	Timeout time.Duration `json:"timeout"`

	// Grace is how long the response observer stays armed after the page
	// load completes without a match. Streams are often requested by the
	// player after the load event, so a clean load alone does not fail the
	// attempt. Capped at the remaining Timeout budget.
	Grace time.Duration `json:"grace"`

	// Concurrency is the session pool size and the maximum number of
	// simultaneous attempts.
	Concurrency int `json:"concurrency"`

	// Retries gates one extra pass over failed URLs when > 0. Kept as an
	// int so a multi-pass mode stays a non-breaking change; today any
	// positive value means exactly one retry pass.
	Retries int `json:"retries"`

	// Verbose enables per-group progress logging.
	Verbose bool `json:"verbose"`

	// Headless runs the browser engine off-screen.
	Headless bool `json:"headless"`

	// Patterns overrides DefaultPatterns when non-empty. Tested in order,
	// case-insensitively.
	Patterns []string `json:"patterns"`
}

// DefaultExtractConfig returns the default configuration.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		Timeout:     DefaultTimeout,
		Grace:       DefaultGrace,
		Concurrency: DefaultConcurrency,
		Retries:     DefaultRetries,
		Headless:    true,
		Patterns:    DefaultPatterns,
	}
}

// Normalize fills zero values with defaults. Boolean fields are left alone:
// Headless false is a deliberate choice, not an unset value, so callers that
// want the default should start from DefaultExtractConfig.
func (c *ExtractConfig) Normalize() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Grace < 0 {
		c.Grace = DefaultGrace
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Retries < 0 {
		c.Retries = DefaultRetries
	}
	if len(c.Patterns) == 0 {
		c.Patterns = DefaultPatterns
	}
}

// Validate rejects configurations the extractor cannot honor.
func (c *ExtractConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Grace < 0 {
		return fmt.Errorf("grace must not be negative, got %v", c.Grace)
	}
	if c.Concurrency < 1 || c.Concurrency > 64 {
		return fmt.Errorf("concurrency must be between 1 and 64, got %d", c.Concurrency)
	}
	if c.Retries < 0 || c.Retries > 10 {
		return fmt.Errorf("retries must be between 0 and 10, got %d", c.Retries)
	}
	if len(c.Patterns) == 0 {
		return fmt.Errorf("at least one m3u8 pattern is required")
	}
	return nil
}
