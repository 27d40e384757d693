package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveEntry resolves the declared entry point to one concrete package
// directory. Relative patterns resolve against baseDir (the config file's
// directory). Glob patterns, including **, are supported but must match
// exactly one directory: the entry package is singular.
func ResolveEntry(baseDir, pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("%w: no entry point declared", ErrEntryNotFound)
	}

	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(baseDir, pattern)
	}

	if !containsGlob(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrEntryNotFound, pattern, err)
		}
		if !info.IsDir() {
			// A file entry (main.go) resolves to its package directory.
			return filepath.Dir(pattern), nil
		}
		return filepath.Clean(pattern), nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return "", fmt.Errorf("%w: glob %s: %v", ErrEntryNotFound, pattern, err)
	}

	var dirs []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, filepath.Clean(match))
	}

	switch len(dirs) {
	case 0:
		return "", fmt.Errorf("%w: pattern %s matched no directories", ErrEntryNotFound, pattern)
	case 1:
		return dirs[0], nil
	default:
		return "", fmt.Errorf("%w: pattern %s is ambiguous, matched %d directories", ErrEntryNotFound, pattern, len(dirs))
	}
}

// containsGlob checks if a pattern contains glob metacharacters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
