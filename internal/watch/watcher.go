// Package watch notifies about env file changes, debounced so editors that
// write in bursts trigger a single reload.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu    sync.Mutex
	files map[string]bool
	timer *time.Timer

	onChange chan struct{}
	done     chan struct{}
}

func NewFileWatcher() (*FileWatcher, error) {
	return NewFileWatcherDebounced(DefaultDebounce)
}

func NewFileWatcherDebounced(debounce time.Duration) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		watcher:  fsw,
		debounce: debounce,
		files:    make(map[string]bool),
		onChange: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Add watches path. A file that does not exist yet is watched through its
// parent directory, so creating it later still notifies.
func (w *FileWatcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if w.files[absPath] {
		return nil
	}

	target := absPath
	if _, err := os.Stat(absPath); err != nil {
		target = filepath.Dir(absPath)
	}
	if err := w.watcher.Add(target); err != nil {
		return err
	}
	w.files[absPath] = true
	return nil
}

// Start begins delivering debounced change notifications.
func (w *FileWatcher) Start() <-chan struct{} {
	go w.run()
	return w.onChange
}

func (w *FileWatcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				if w.interested(event.Name) {
					w.trigger()
				}
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// interested matches the event path against watched files; directory-level
// events compare by base name because editors often replace files via
// rename.
func (w *FileWatcher) interested(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[name] {
		return true
	}
	for watched := range w.files {
		if filepath.Base(watched) == filepath.Base(name) {
			return true
		}
	}
	return false
}

func (w *FileWatcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.onChange <- struct{}{}:
		default:
		}
	})
}

func (w *FileWatcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	return files
}

func (w *FileWatcher) Close() error {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
