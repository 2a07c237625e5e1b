package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/daddylive/m3u8hunt/internal/models"
)

// ReadURLsFromFile loads embed URLs from a file, one per line. Blank lines
// and lines starting with # are skipped; invalid URLs are skipped with a
// warning.
func ReadURLsFromFile(filepath string) ([]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("open URL file: %w", err)
	}
	defer file.Close()

	urls := make([]string, 0)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := models.ValidateURL(line); err != nil {
			Warnf("skipping invalid URL (line %d): %s - %v", lineNum, line, err)
			continue
		}

		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL file: %w", err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("no valid URLs in %s", filepath)
	}

	Infof("loaded %d URLs from %s", len(urls), filepath)
	return urls, nil
}
