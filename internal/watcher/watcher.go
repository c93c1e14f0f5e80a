// Package watcher reports edits made to the data files by other processes.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"contacts-manager/internal/utils"
)

const DefaultDebounce = 500 * time.Millisecond

// FileWatcher watches the directories holding a fixed set of files. Saves
// replace files by rename, so the directory is watched rather than the file.
// Bursts of events for one file collapse into a single callback once the
// file has been quiet for the debounce window.
type FileWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	pending  map[string]time.Time
	debounce time.Duration
	onChange func(path string)
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

func New(paths []string, debounce time.Duration, onChange func(path string)) (*FileWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("error resolving %s: %v", p, err)
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating file watcher: %v", err)
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("error watching %s: %v", dir, err)
		}
	}

	return &FileWatcher{
		watcher:  w,
		files:    files,
		pending:  make(map[string]time.Time),
		debounce: debounce,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start runs the event loop in a goroutine until ctx is done or Stop is
// called.
func (fw *FileWatcher) Start(ctx context.Context) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running {
		return
	}
	fw.running = true
	go fw.run(ctx)
}

// Stop ends the event loop, waits for it and releases the watcher.
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	wasRunning := fw.running
	fw.running = false
	fw.mu.Unlock()

	if wasRunning {
		close(fw.stopCh)
		<-fw.doneCh
	}
	if err := fw.watcher.Close(); err != nil {
		utils.LogError("Error closing file watcher: %v", err)
	}
}

func (fw *FileWatcher) run(ctx context.Context) {
	defer close(fw.doneCh)

	tick := fw.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopCh:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			utils.LogError("File watcher error: %v", err)
		case <-ticker.C:
			fw.flush()
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := fw.files[name]; !ok {
		return
	}

	utils.LogDebug("File watcher: %s on %s", event.Op, name)
	fw.mu.Lock()
	fw.pending[name] = time.Now()
	fw.mu.Unlock()
}

func (fw *FileWatcher) flush() {
	now := time.Now()
	var settled []string

	fw.mu.Lock()
	for path, at := range fw.pending {
		if now.Sub(at) >= fw.debounce {
			settled = append(settled, path)
			delete(fw.pending, path)
		}
	}
	fw.mu.Unlock()

	for _, path := range settled {
		fw.onChange(path)
	}
}
