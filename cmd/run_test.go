package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestRunRun(t *testing.T) {
	isolateConfig(t)

	t.Run("requires command argument", func(t *testing.T) {
		if err := runRun(nil, []string{}); err == nil {
			t.Error("runRun() should error when no command specified")
		}
	})

	t.Run("runs command with injected environment", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("skipping on Windows due to command differences")
		}
		tmp := t.TempDir()
		envPath := filepath.Join(tmp, ".env")
		if err := os.WriteFile(envPath, []byte("TEST_VAR=\"from file\"\n"), 0600); err != nil {
			t.Fatalf("write .env: %v", err)
		}
		chdir(t, tmp)

		runFiles = []string{envPath}
		defer func() { runFiles = nil }()

		err := runRun(nil, []string{"sh", "-c", `test "$TEST_VAR" = "from file"`})
		if err != nil {
			t.Errorf("runRun() error = %v", err)
		}
	})

	t.Run("strict missing file errors", func(t *testing.T) {
		tmp := t.TempDir()
		chdir(t, tmp)

		runFiles = []string{filepath.Join(tmp, "nope.env")}
		runStrict = true
		defer func() {
			runFiles = nil
			runStrict = false
		}()

		if err := runRun(nil, []string{"true"}); err == nil {
			t.Error("runRun() should error for a missing file in strict mode")
		}
	})

	t.Run("overlay env applies", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("skipping on Windows due to command differences")
		}
		tmp := t.TempDir()
		chdir(t, tmp)

		runEnv = []string{"OVERLAY_VAR=direct"}
		defer func() { runEnv = nil }()

		err := runRun(nil, []string{"sh", "-c", `test "$OVERLAY_VAR" = direct`})
		if err != nil {
			t.Errorf("runRun() error = %v", err)
		}
	})
}

func TestResolveEnvFiles(t *testing.T) {
	t.Run("falls back to .env outside a workspace", func(t *testing.T) {
		tmp := t.TempDir()
		chdir(t, tmp)

		files := resolveEnvFiles(nil)
		if len(files) != 1 || files[0] != ".env" {
			t.Errorf("resolveEnvFiles() = %v, want [.env]", files)
		}
	})

	t.Run("discovers files in a workspace", func(t *testing.T) {
		tmp := t.TempDir()
		if err := os.WriteFile(filepath.Join(tmp, "go.work"), nil, 0600); err != nil {
			t.Fatalf("write marker: %v", err)
		}
		if err := os.WriteFile(filepath.Join(tmp, ".env"), []byte("KEY=value\n"), 0600); err != nil {
			t.Fatalf("write .env: %v", err)
		}
		chdir(t, tmp)

		files := resolveEnvFiles(nil)
		if len(files) != 1 {
			t.Fatalf("resolveEnvFiles() = %v, want one file", files)
		}
	})
}
