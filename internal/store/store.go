package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultFile is the log file name used when no path is configured.
const DefaultFile = "areas.json"

// Indent is the per-level indentation of the on-disk JSON.
const Indent = "    "

// Invalidator drops cached views of the log. *cache.Cache satisfies it.
type Invalidator interface {
	Invalidate()
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate() {}

// Store reads and appends to one log file.
type Store struct {
	path  string
	cache Invalidator

	// mu serializes Append and Clear.
	mu sync.Mutex
}

// New returns a store for the log at path. The file is not touched until
// the first Append. A nil invalidator is allowed.
func New(path string, inv Invalidator) *Store {
	if path == "" {
		path = DefaultFile
	}
	if inv == nil {
		inv = noopInvalidator{}
	}
	return &Store{path: path, cache: inv}
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}

// ModTime returns the log's modification time. The boolean is false when
// the file does not exist or cannot be stat'ed.
func (s *Store) ModTime() (time.Time, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Clear deletes the log file and invalidates the cache.
//
// Clearing an absent log is a no-op reported as (false, nil). Any other
// failure returns an error wrapping ErrClearFailed.
func (s *Store) Clear() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	// The file may be partly gone even on error; a stale snapshot is worse
	// than a reload.
	s.cache.Invalidate()

	if err != nil {
		slog.Error("log clear failed",
			"path", s.path,
			"error", err,
		)
		return false, fmt.Errorf("%w: %w", ErrClearFailed, err)
	}

	slog.Info("log cleared", "path", s.path)
	return true, nil
}

func (s *Store) dir() string {
	return filepath.Dir(s.path)
}
