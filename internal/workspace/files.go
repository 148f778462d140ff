package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var DefaultExcludeDirs = []string{
	".git",
	"node_modules",
	"vendor",
	".cache",
	".turbo",
	".next",
}

// IsEnvFilename reports whether name is an env file worth loading. Example
// and template files document keys, they never hold real values.
func IsEnvFilename(name string) bool {
	if name == ".env" {
		return true
	}
	switch name {
	case ".env.example", ".env.sample", ".env.template":
		return false
	}
	return strings.HasPrefix(name, ".env.") && len(name) > len(".env.")
}

// ListEnvFiles walks root collecting env files. Paths matching any of the
// doublestar exclude patterns (relative, slash-separated) are skipped, on
// top of the default directory excludes.
func ListEnvFiles(root string, excludes []string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	excludeSet := make(map[string]bool)
	for _, d := range DefaultExcludeDirs {
		excludeSet[d] = true
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excludeSet[d.Name()] || matchesAny(excludes, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if IsEnvFilename(d.Name()) && !matchesAny(excludes, rel) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func matchesAny(patterns []string, rel string) bool {
	if rel == "." {
		return false
	}
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
