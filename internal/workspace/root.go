// Package workspace locates project roots and discovers env files in them.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// MarkerFiles identify a project or monorepo root, checked in order.
var MarkerFiles = []string{
	"go.work",
	"pnpm-workspace.yaml",
	"turbo.json",
	"lerna.json",
	"Cargo.toml",
	".git",
}

// FindRoot walks upward from dir until a marker file is found. Without a
// marker it falls back to dir itself.
func FindRoot(dir string) (string, error) {
	original, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	dir = original

	for {
		for _, marker := range MarkerFiles {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return original, nil
		}
		dir = parent
	}
}

func IsWorkspace(dir string) bool {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	for _, marker := range MarkerFiles {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

func FindMarker(root string) string {
	for _, marker := range MarkerFiles {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			return marker
		}
	}
	return ""
}

func FormatMarkerForDisplay(marker string) string {
	if marker == "" {
		return "unknown"
	}
	if marker == ".git" {
		return "git repository"
	}
	return marker
}
