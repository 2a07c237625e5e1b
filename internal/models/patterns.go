package models

import (
	"fmt"
	"regexp"
)

// PatternList is an ordered set of compiled m3u8 URL matchers.
type PatternList []*regexp.Regexp

// CompilePatterns compiles the given expressions case-insensitively,
// preserving order.
func CompilePatterns(exprs []string) (PatternList, error) {
	patterns := make(PatternList, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(`(?i)` + expr)
		if err != nil {
			return nil, fmt.Errorf("invalid m3u8 pattern %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

// Match reports whether the URL matches any pattern, testing in order.
func (pl PatternList) Match(rawURL string) bool {
	for _, re := range pl {
		if re.MatchString(rawURL) {
			return true
		}
	}
	return false
}
