package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureLs(t *testing.T, args []string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	lsCmd.SetOut(&buf)
	defer lsCmd.SetOut(nil)
	err := runLs(lsCmd, args)
	return buf.String(), err
}

func TestRunLs(t *testing.T) {
	isolateConfig(t)

	t.Run("lists env files under a directory", func(t *testing.T) {
		tmp := t.TempDir()
		mustWrite := func(rel string) {
			path := filepath.Join(tmp, rel)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			if err := os.WriteFile(path, []byte("KEY=value\n"), 0600); err != nil {
				t.Fatalf("write %s: %v", rel, err)
			}
		}
		mustWrite(".env")
		mustWrite(filepath.Join("apps", "web", ".env.local"))

		out, err := captureLs(t, []string{tmp})
		if err != nil {
			t.Fatalf("runLs() error = %v", err)
		}
		if !strings.Contains(out, ".env") {
			t.Errorf("output missing .env:\n%s", out)
		}
		if !strings.Contains(out, ".env.local") {
			t.Errorf("output missing .env.local:\n%s", out)
		}
	})

	t.Run("empty directory prints nothing", func(t *testing.T) {
		out, err := captureLs(t, []string{t.TempDir()})
		if err != nil {
			t.Fatalf("runLs() error = %v", err)
		}
		if out != "" {
			t.Errorf("output = %q, want empty", out)
		}
	})

	t.Run("skips example and excluded files", func(t *testing.T) {
		tmp := t.TempDir()
		for _, rel := range []string{".env", ".env.example", filepath.Join("node_modules", "dep", ".env")} {
			path := filepath.Join(tmp, rel)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			if err := os.WriteFile(path, []byte("KEY=value\n"), 0600); err != nil {
				t.Fatalf("write %s: %v", rel, err)
			}
		}

		out, err := captureLs(t, []string{tmp})
		if err != nil {
			t.Fatalf("runLs() error = %v", err)
		}
		if strings.Contains(out, ".env.example") {
			t.Errorf("output should not list .env.example:\n%s", out)
		}
		if strings.Contains(out, "node_modules") {
			t.Errorf("output should not descend into node_modules:\n%s", out)
		}
	})

	t.Run("rejects a file argument", func(t *testing.T) {
		tmp := t.TempDir()
		file := filepath.Join(tmp, ".env")
		if err := os.WriteFile(file, []byte("KEY=value\n"), 0600); err != nil {
			t.Fatalf("write .env: %v", err)
		}
		if _, err := captureLs(t, []string{file}); err == nil {
			t.Error("runLs() should reject a non-directory argument")
		}
	})

	t.Run("missing directory errors", func(t *testing.T) {
		if _, err := captureLs(t, []string{filepath.Join(t.TempDir(), "nope")}); err == nil {
			t.Error("runLs() should error for a missing directory")
		}
	})
}
