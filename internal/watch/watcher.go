// Package watch reports changes made on disk to the files open in the IDE.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cobide/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileModification represents a change to a watched file
type FileModification struct {
	Path      string
	Info      os.FileInfo // nil when the file no longer exists
	Timestamp time.Time
	Op        fsnotify.Op
}

// Removed reports whether the file is gone
func (m FileModification) Removed() bool {
	return m.Info == nil
}

// Watcher monitors individual files using fsnotify. The parent directory of
// each file is watched so that editors replacing files by rename are seen.
type Watcher struct {
	// Watched files and the number of times each was added
	files map[string]int

	// Watched directories and the number of files they hold
	directories map[string]int

	// Channel to receive file modifications
	fileModChan chan FileModification

	// Channel to signal stop
	stopChan chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	mutex sync.RWMutex

	// Whether the watcher is running
	running bool
}

// New creates a new file watcher
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		files:       map[string]int{},
		directories: map[string]int{},
		fileModChan: make(chan FileModification, 16),
		stopChan:    make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// Add starts watching path. Adding the same path twice requires removing
// it twice.
func (w *Watcher) Add(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error accessing file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	dir := filepath.Dir(path)
	if w.directories[dir] == 0 {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
		}
	}
	if w.files[path] == 0 {
		w.directories[dir]++
	}
	w.files[path]++
	log.LogWithFields(log.F("file", path)).Debug("Watching file")
	return nil
}

// Remove stops watching path once it was removed as often as it was added
func (w *Watcher) Remove(path string) {
	path, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.files[path] == 0 {
		return
	}
	w.files[path]--
	if w.files[path] > 0 {
		return
	}
	delete(w.files, path)

	dir := filepath.Dir(path)
	w.directories[dir]--
	if w.directories[dir] <= 0 {
		delete(w.directories, dir)
		if err := w.fsWatcher.Remove(dir); err != nil {
			log.LogWithFields(log.F("directory", dir), log.F("error", err)).Debug("Error removing watch")
		}
	}
}

// Files returns the watched files
func (w *Watcher) Files() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	return files
}

func (w *Watcher) watching(path string) bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.files[path] > 0
}

// FileChannel returns the channel that delivers file modification events
func (w *Watcher) FileChannel() <-chan FileModification {
	return w.fileModChan
}

// Start begins the file watching process
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	stop := w.stopChan
	w.mutex.Unlock()

	go w.loop(stop)

	log.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop(stop chan struct{}) {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !w.watching(event.Name) {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	mod := FileModification{Path: event.Name, Timestamp: time.Now(), Op: event.Op}
	if info, err := os.Stat(event.Name); err == nil {
		if info.IsDir() {
			return
		}
		mod.Info = info
	} else if !os.IsNotExist(err) {
		log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Error("Error stating file")
		return
	}

	w.mutex.RLock()
	defer w.mutex.RUnlock()
	if !w.running {
		return
	}
	// Send non-blockingly so a slow consumer cannot stall fsnotify
	select {
	case w.fileModChan <- mod:
	default:
		log.LogWithFields(log.F("file", event.Name)).Warn("Event channel is full, dropped event")
	}
}

// Stop halts the watcher and closes the event channel
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}

	w.running = false

	close(w.fileModChan)

	log.Debug("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
