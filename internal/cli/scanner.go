package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sapo-creations/sapodi/internal/errors"
)

// PatternScanner validates package patterns before they reach the loader
type PatternScanner struct{}

// NewPatternScanner creates a new pattern scanner
func NewPatternScanner() *PatternScanner {
	return &PatternScanner{}
}

// ResolvePatterns checks that every file system pattern names an existing
// directory relative to dir. Go-style recursive patterns like ./... are
// kept as is; import paths are passed through untouched.
func (s *PatternScanner) ResolvePatterns(dir string, patterns []string) ([]string, error) {
	resolved := make([]string, 0, len(patterns))
	seen := make(map[string]bool, len(patterns))

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || seen[pattern] {
			continue
		}
		seen[pattern] = true

		if !isFileSystemPattern(pattern) {
			resolved = append(resolved, pattern)
			continue
		}

		base := strings.TrimSuffix(pattern, "...")
		base = strings.TrimSuffix(base, "/")
		if base == "" {
			base = "."
		}
		path := base
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.WrapFileSystemError("stat", path, err).
				Suggest(fmt.Sprintf("Check that %s exists", base))
		}
		if !info.IsDir() {
			return nil, errors.Newf(errors.FileSystemErrorCode, "pattern %s does not name a directory", pattern)
		}

		resolved = append(resolved, pattern)
	}

	return resolved, nil
}

func isFileSystemPattern(pattern string) bool {
	return pattern == "." || pattern == ".." ||
		strings.HasPrefix(pattern, "./") ||
		strings.HasPrefix(pattern, "../") ||
		filepath.IsAbs(pattern)
}
