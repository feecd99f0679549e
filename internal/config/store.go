package config

import (
	"os"
	"path/filepath"
	"sync"

	"cobide/internal/log"
)

// Store is the process-wide settings holder. Every mutation is written back
// to disk right away; a failed write is logged and never interrupts the
// caller, settings are a convenience.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  *Config
}

// OpenStore loads the settings at path, or at DefaultPath when path is empty.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cfg: cfg}, nil
}

// NewMemoryStore wraps cfg without a backing file
func NewMemoryStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = New()
	}
	return &Store{cfg: cfg}
}

// Path returns the backing file, empty for memory stores
func (s *Store) Path() string {
	return s.path
}

// Config returns a copy of the current settings
func (s *Store) Config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Update applies fn to the settings and persists them
func (s *Store) Update(fn func(cfg *Config)) error {
	s.mu.Lock()
	fn(s.cfg)
	snapshot := s.cfg.Clone()
	s.mu.Unlock()
	return s.save(snapshot)
}

// Save writes the current settings to disk
func (s *Store) Save() error {
	return s.save(s.Config())
}

func (s *Store) save(cfg *Config) error {
	if s.path == "" {
		return nil
	}
	if err := SaveConfig(cfg, s.path); err != nil {
		log.LogWithFields(log.F("path", s.path), log.F("error", err)).Warn("failed to persist settings")
		return err
	}
	return nil
}

// LastUsedPath returns the directory file dialogs should start in. It falls
// back to the home directory when nothing was recorded or the recorded
// directory is gone.
func (s *Store) LastUsedPath() string {
	s.mu.RLock()
	dir := s.cfg.Editor.LastUsedPath
	s.mu.RUnlock()

	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// SetLastUsedPath records dir as the last used directory
func (s *Store) SetLastUsedPath(dir string) {
	if dir == "" {
		return
	}
	_ = s.Update(func(cfg *Config) {
		cfg.Editor.LastUsedPath = filepath.Clean(dir)
	})
}

// FallbackEncoding is the encoding used when a save cannot encode the text
func (s *Store) FallbackEncoding() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Editor.FallbackEncoding
}

// RecentFiles returns the recent files, most recent first
func (s *Store) RecentFiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.cfg.Recent.Files...)
}

// AddRecentFile moves path to the front of the recent files list, trimming
// the list to its configured size.
func (s *Store) AddRecentFile(path string) {
	if path == "" {
		return
	}
	clean := filepath.Clean(path)
	_ = s.Update(func(cfg *Config) {
		files := make([]string, 0, len(cfg.Recent.Files)+1)
		files = append(files, clean)
		for _, f := range cfg.Recent.Files {
			if f != clean {
				files = append(files, f)
			}
		}
		if len(files) > cfg.Recent.Max {
			files = files[:cfg.Recent.Max]
		}
		cfg.Recent.Files = files
	})
}

// RemoveRecentFile drops path from the recent files list
func (s *Store) RemoveRecentFile(path string) {
	clean := filepath.Clean(path)
	_ = s.Update(func(cfg *Config) {
		files := cfg.Recent.Files[:0]
		for _, f := range cfg.Recent.Files {
			if f != clean {
				files = append(files, f)
			}
		}
		cfg.Recent.Files = files
	})
}

// ClearRecentFiles empties the recent files list
func (s *Store) ClearRecentFiles() {
	_ = s.Update(func(cfg *Config) {
		cfg.Recent.Files = []string{}
	})
}
