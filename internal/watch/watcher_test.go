package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newWatcher(t *testing.T) *FileWatcher {
	t.Helper()
	w, err := NewFileWatcherDebounced(100 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileWatcherDebounced: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestFileWatcher(t *testing.T) {
	t.Run("detects file changes", func(t *testing.T) {
		tmpDir := t.TempDir()
		envFile := filepath.Join(tmpDir, ".env")
		if err := os.WriteFile(envFile, []byte("KEY=value\n"), 0644); err != nil {
			t.Fatalf("write file: %v", err)
		}

		w := newWatcher(t)
		if err := w.Add(envFile); err != nil {
			t.Fatalf("Add: %v", err)
		}
		changes := w.Start()

		time.Sleep(50 * time.Millisecond)
		if err := os.WriteFile(envFile, []byte("KEY=changed\n"), 0644); err != nil {
			t.Fatalf("write file: %v", err)
		}

		select {
		case <-changes:
		case <-time.After(2 * time.Second):
			t.Error("expected change notification")
		}
	})

	t.Run("watches file that does not exist yet", func(t *testing.T) {
		tmpDir := t.TempDir()
		envFile := filepath.Join(tmpDir, ".env")

		w := newWatcher(t)
		if err := w.Add(envFile); err != nil {
			t.Fatalf("Add: %v", err)
		}
		changes := w.Start()

		time.Sleep(50 * time.Millisecond)
		if err := os.WriteFile(envFile, []byte("KEY=value\n"), 0644); err != nil {
			t.Fatalf("write file: %v", err)
		}

		select {
		case <-changes:
		case <-time.After(2 * time.Second):
			t.Error("expected change notification for created file")
		}
	})

	t.Run("collapses rapid writes into one notification", func(t *testing.T) {
		tmpDir := t.TempDir()
		envFile := filepath.Join(tmpDir, ".env")
		if err := os.WriteFile(envFile, []byte("KEY=value\n"), 0644); err != nil {
			t.Fatalf("write file: %v", err)
		}

		w := newWatcher(t)
		if err := w.Add(envFile); err != nil {
			t.Fatalf("Add: %v", err)
		}
		changes := w.Start()

		time.Sleep(50 * time.Millisecond)
		for i := 0; i < 5; i++ {
			if err := os.WriteFile(envFile, []byte("KEY=value\n"), 0644); err != nil {
				t.Fatalf("write file: %v", err)
			}
			time.Sleep(20 * time.Millisecond)
		}

		select {
		case <-changes:
		case <-time.After(2 * time.Second):
			t.Error("expected change notification")
		}
	})

	t.Run("Files returns watched files", func(t *testing.T) {
		tmpDir := t.TempDir()
		envFile := filepath.Join(tmpDir, ".env")

		w := newWatcher(t)
		if err := w.Add(envFile); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if got := len(w.Files()); got != 1 {
			t.Errorf("Files() = %d files, want 1", got)
		}
	})
}
