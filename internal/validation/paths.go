package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxPathLength = 4096

// PathGuard prepares filesystem paths from config before the database,
// index and log files are opened.
type PathGuard struct {
	// AllowRelative keeps relative paths as-is instead of making them
	// absolute.
	AllowRelative bool
}

func NewPathGuard() *PathGuard {
	return &PathGuard{}
}

// Sanitize validates and normalizes a path: tilde expanded, cleaned, and
// made absolute unless relative paths are allowed.
func (g *PathGuard) Sanitize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > maxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", maxPathLength)
	}
	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("path contains null bytes")
	}
	for _, r := range path {
		if r < 32 {
			return "", fmt.Errorf("path contains control characters")
		}
	}

	// Clean and Abs resolve ".." segments, so this must see the raw input.
	for _, component := range strings.Split(filepath.ToSlash(path), "/") {
		if component == ".." {
			return "", fmt.Errorf("directory traversal is not allowed")
		}
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("unsupported tilde expansion")
	}

	if !g.AllowRelative && !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("cannot make path absolute: %w", err)
		}
		path = abs
	}
	return filepath.Clean(path), nil
}

// EnsureFile validates a file path and creates its parent directory.
func (g *PathGuard) EnsureFile(path string) (string, error) {
	clean, err := g.Sanitize(path)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(clean); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", clean)
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("creating parent directory: %w", err)
	}
	return clean, nil
}

// EnsureDir validates a directory path and creates it.
func (g *PathGuard) EnsureDir(path string) (string, error) {
	clean, err := g.Sanitize(path)
	if err != nil {
		return "", err
	}
	info, statErr := os.Stat(clean)
	if statErr == nil && !info.IsDir() {
		return "", fmt.Errorf("path exists but is not a directory: %s", clean)
	}
	if err := os.MkdirAll(clean, 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	return clean, nil
}
