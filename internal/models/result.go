package models

import (
	"fmt"
	"net/url"
)

// ExtractionResult is the outcome of one navigate-and-observe attempt
// against one embed URL. Exactly one result exists per submitted URL in the
// final output; a successful retry replaces the failed original in place.
type ExtractionResult struct {
	// ID is a unique attempt identifier.
	ID string `json:"id"`

	// EmbedURL is the page the attempt navigated to.
	EmbedURL string `json:"embed_url"`

	// M3U8URL is the captured manifest URL. Empty on failure.
	M3U8URL string `json:"m3u8_url,omitempty"`

	// Success is true when an m3u8 URL was observed before the deadline.
	Success bool `json:"success"`

	// Time is the elapsed wall-clock time of the attempt in milliseconds,
	// measured from attempt start to race resolution.
	Time float64 `json:"time_ms"`

	// Error describes the failure. Empty on success.
	Error string `json:"error,omitempty"`
}

// Statistics are process-wide running counters across all concluded
// attempts, including retries. Durations are milliseconds and cover
// successful attempts only.
type Statistics struct {
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	TotalTime   float64 `json:"total_time_ms"`
	AverageTime float64 `json:"average_time_ms"`
}

// ValidateURL checks that a string is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("URL is missing a scheme (http/https)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL is missing a host")
	}
	return nil
}
