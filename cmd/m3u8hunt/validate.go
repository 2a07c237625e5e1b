package main

import (
	"fmt"
	"net/url"

	"github.com/daddylive/m3u8hunt/internal/models"
)

// ValidateURL checks that a URL is absolute http(s).
func ValidateURL(urlStr string) error {
	return models.ValidateURL(urlStr)
}

// ValidateFlags checks the command line flags.
func ValidateFlags(
	targetURL string,
	timeoutMs int,
	graceMs int,
	concurrency int,
	retries int,
	patterns []string,
) error {
	if targetURL != "" {
		if err := ValidateURL(targetURL); err != nil {
			return fmt.Errorf("invalid target URL: %w", err)
		}
	}

	if timeoutMs < 1 {
		return fmt.Errorf("timeout must be positive, got: %d", timeoutMs)
	}

	if graceMs < 0 {
		return fmt.Errorf("grace must not be negative, got: %d", graceMs)
	}

	if concurrency < 1 || concurrency > 64 {
		return fmt.Errorf("concurrency must be between 1 and 64, got: %d", concurrency)
	}

	if retries < 0 || retries > 10 {
		return fmt.Errorf("retries must be between 0 and 10, got: %d", retries)
	}

	for _, p := range patterns {
		if p == "" {
			return fmt.Errorf("pattern must not be empty")
		}
	}

	return nil
}

// ValidateURLFile checks the URL file path.
func ValidateURLFile(filepath string) error {
	if filepath == "" {
		return fmt.Errorf("URL file path must not be empty")
	}
	// Existence is checked when the file is read.
	return nil
}

// NormalizeURL fills in a missing scheme, defaulting to https.
func NormalizeURL(urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	if parsed.Scheme == "" {
		urlStr = "https://" + urlStr
		parsed, err = url.Parse(urlStr)
		if err != nil {
			return "", err
		}
	}

	return parsed.String(), nil
}
