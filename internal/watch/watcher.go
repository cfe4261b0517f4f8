// Package watch invalidates the snapshot cache when the area log changes
// outside this process.
package watch

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/roach88/arealog/internal/store"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before it reacts.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors one log file.
//
// It watches the file's directory rather than the file itself, so the log
// may be created, replaced by rename, or deleted while watched.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	cache     store.Invalidator
	delay     time.Duration

	events   chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu       sync.Mutex
	debounce *time.Timer
	closed   bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle delay. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// New starts watching the log at path. Each settled change invalidates
// cache and signals on Events. The log's directory must exist.
func New(path string, cache store.Invalidator, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		path:      abs,
		cache:     cache,
		delay:     DefaultDebounce,
		events:    make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.run()
	return w, nil
}

// Path returns the absolute path of the watched log.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns a channel that signals after the log changed and the cache
// was invalidated. Signals coalesce; the channel is closed after Stop.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Stop shuts down the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.fsWatcher.Close()
	})
	<-w.done
}

func (w *Watcher) run() {
	defer func() {
		w.mu.Lock()
		w.closed = true
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.mu.Unlock()
		close(w.events)
		close(w.done)
	}()

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op == fsnotify.Chmod {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Warn("log watcher error",
				"path", w.path,
				"error", err,
			)
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	w.cache.Invalidate()
	slog.Debug("log changed", "path", w.path)

	select {
	case w.events <- struct{}{}:
	default: // Pending signal already queued
	}
}
