// Package pathmatch implements exclusion matching for discovered files.
//
// Patterns are shell-style globs (*, ?, and bracket classes) compared
// case-insensitively against a file's basename only. Directory components
// never participate in a match, and there is no negation syntax.
package pathmatch

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Split normalizes raw pattern inputs into a flat pattern list.
// Each input may itself be a comma-separated list; surrounding whitespace
// is trimmed and empty entries are dropped.
func Split(raw []string) []string {
	var patterns []string
	for _, r := range raw {
		for _, p := range strings.Split(r, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				patterns = append(patterns, p)
			}
		}
	}
	return patterns
}

// Excluded reports whether the basename of path matches any pattern.
// An empty pattern list excludes nothing. Malformed patterns never match.
func Excluded(path string, patterns []string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, p := range patterns {
		ok, err := doublestar.Match(strings.ToLower(p), base)
		if err == nil && ok {
			return true
		}
	}
	return false
}
