// Package runenv composes environment maps from env files and runs commands
// with them injected.
package runenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xmazu/envrun/internal/dotenv"
)

// LoadEnvFromFiles parses each file and merges the results left to right.
// By default the first file to define a key wins; with overload later files
// override. With strict any missing file or parse error aborts; otherwise
// unreadable files are skipped.
func LoadEnvFromFiles(paths []string, overload, strict bool) (map[string]string, error) {
	merged := make(map[string]string)
	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve path %q: %w", p, err)
		}

		vars, err := dotenv.Load(absPath)
		if err != nil {
			if strict {
				return nil, err
			}
			continue
		}

		for k, v := range vars {
			if overload || merged[k] == "" {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

// MergeOverlayEnv applies --env KEY=value overrides on top of env.
func MergeOverlayEnv(env map[string]string, overlay []string, overload bool) error {
	for _, s := range overlay {
		idx := strings.Index(s, "=")
		if idx <= 0 {
			return fmt.Errorf("invalid --env %q: expected KEY=value", s)
		}
		key := s[:idx]
		value := s[idx+1:]
		if overload || env[key] == "" {
			env[key] = value
		}
	}
	return nil
}

func ResolveEnvPath(path, workdir string) (string, error) {
	if path == "" {
		path = ".env"
	}
	if workdir != "" {
		path = filepath.Join(workdir, path)
	}
	return filepath.Abs(path)
}

const MaxEnvSearchDepth = 16

// FindEnvInParents walks upward from dir looking for a .env file.
func FindEnvInParents(dir string, maxDepth int) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}
	for i := 0; i < maxDepth; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no .env found in current or parent directories (searched up to %d levels)", maxDepth)
}

// MaskValue hides most of a value while keeping enough of the tail to
// recognize it.
func MaskValue(value string) string {
	length := len(value)
	if length == 0 {
		return ""
	}
	switch {
	case length <= 4:
		return strings.Repeat("*", length)
	case length <= 8:
		return strings.Repeat("*", length-2) + value[length-2:]
	default:
		return strings.Repeat("*", length-4) + value[length-4:]
	}
}
