package cache

import (
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/roach88/arealog/internal/clock"
	"github.com/roach88/arealog/internal/record"
)

// DefaultTTL bounds staleness when a write lands inside the same mtime tick.
const DefaultTTL = 60 * time.Second

// StatFunc reports a file's modification time. A missing file is reported
// as the zero time with a nil error.
type StatFunc func(path string) (time.Time, error)

// Cache holds at most one snapshot of the log, validated by file mtime and
// a time-to-live.
//
// A single mutex guards Invalidate, IsValid, Get, and Set. The lock is held
// for one stat call plus a slice copy, never across parsing the log.
type Cache struct {
	mu sync.Mutex

	// entry
	hasSnapshot bool
	snapshot    []record.Record
	sourcePath  string
	capturedAt  time.Time
	sourceMTime time.Time

	// generation counts invalidations; a Token from an older generation
	// cannot commit.
	generation uint64

	ttl   time.Duration
	clock clock.Clock
	stat  StatFunc
	stats Stats
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:   DefaultTTL,
		clock: clock.System{},
		stat:  FileMTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Invalidate drops the snapshot. It is idempotent and always succeeds.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hasSnapshot = false
	c.snapshot = nil
	c.sourcePath = ""
	c.capturedAt = time.Time{}
	c.sourceMTime = time.Time{}
	c.generation++
	c.stats.Invalidations++
}

// IsValid reports whether the held snapshot may be served for path.
func (c *Cache) IsValid(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isValidLocked(path)
}

// Get returns a copy of the snapshot when it is valid for path.
// The boolean is false on a miss; a miss is never an error.
func (c *Cache) Get(path string) ([]record.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isValidLocked(path) {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return record.CloneAll(c.snapshot), true
}

// Token is taken before reading the log and passed to Commit with the
// records that were read.
type Token struct {
	path       string
	generation uint64
	mtime      time.Time
	err        error
}

// Begin records the cache generation and the file's mtime ahead of a load
// of path.
func (c *Cache) Begin(path string) Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	mtime, err := c.stat(path)
	return Token{path: path, generation: c.generation, mtime: mtime, err: err}
}

// Commit stores a copy of records as the snapshot of tok's path, stamped
// with the current time and the mtime seen by Begin.
//
// Nothing is stored when the cache was invalidated since Begin, and the
// snapshot is dropped when Begin could not read the mtime. A write that
// lands between Begin and Commit without an invalidation changes the mtime,
// so the snapshot fails its next validity check.
func (c *Cache) Commit(tok Token, records []record.Record) bool {
	snapshot := record.CloneAll(records)

	c.mu.Lock()
	defer c.mu.Unlock()

	if tok.generation != c.generation {
		c.stats.Discards++
		return false
	}
	if tok.err != nil {
		// Without an mtime the snapshot could never be validated.
		c.hasSnapshot = false
		c.snapshot = nil
		c.stats.Discards++
		return false
	}

	c.hasSnapshot = true
	c.snapshot = snapshot
	c.sourcePath = tok.path
	c.capturedAt = c.clock.Now()
	c.sourceMTime = tok.mtime
	c.stats.Sets++
	return true
}

// Set stores records as the current content of path. Callers that read the
// log themselves should use Begin and Commit instead.
func (c *Cache) Set(path string, records []record.Record) {
	c.Commit(c.Begin(path), records)
}

// Stats returns a copy of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache) isValidLocked(path string) bool {
	if !c.hasSnapshot || path != c.sourcePath {
		return false
	}

	mtime, err := c.stat(path)
	if err != nil || !mtime.Equal(c.sourceMTime) {
		return false
	}

	return c.clock.Now().Sub(c.capturedAt) < c.ttl
}

// FileMTime is the default StatFunc backed by os.Stat.
func FileMTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
