// Package query is the read/write entry point to the area log. It composes
// the snapshot cache, the store, and the statistics engine.
package query

import (
	"github.com/roach88/arealog/internal/cache"
	"github.com/roach88/arealog/internal/record"
	"github.com/roach88/arealog/internal/stats"
	"github.com/roach88/arealog/internal/store"
)

// Facade answers queries against one log. Every returned slice is owned by
// the caller.
type Facade struct {
	store *store.Store
	cache *cache.Cache
	stats *stats.Engine
}

// New wires a facade. The store must have been constructed with c as its
// invalidator so that writes drop the snapshot.
func New(s *store.Store, c *cache.Cache, e *stats.Engine) *Facade {
	return &Facade{store: s, cache: c, stats: e}
}

// Open builds a store, cache, and statistics engine for the log at path.
func Open(path string, cacheOpts []cache.Option, statsOpts []stats.Option) *Facade {
	c := cache.New(cacheOpts...)
	return New(store.New(path, c), c, stats.New(statsOpts...))
}

// Path returns the log path.
func (f *Facade) Path() string {
	return f.store.Path()
}

// Cache returns the snapshot cache, for wiring watchers.
func (f *Facade) Cache() *cache.Cache {
	return f.cache
}

// Engine returns the statistics engine.
func (f *Facade) Engine() *stats.Engine {
	return f.stats
}

// LoadAll returns every record in append order, from the cache when it
// holds a valid snapshot. A write that races the load keeps the loaded
// records out of the cache.
func (f *Facade) LoadAll() []record.Record {
	path := f.store.Path()
	if records, ok := f.cache.Get(path); ok {
		return records
	}

	tok := f.cache.Begin(path)
	records := f.store.LoadAll()
	f.cache.Commit(tok, records)
	return records
}

// LoadLast returns the last min(n, count) records in append order.
// Non-positive n yields no records.
func (f *Facade) LoadLast(n int) []record.Record {
	if n <= 0 {
		return []record.Record{}
	}
	records := f.LoadAll()
	if n >= len(records) {
		return records
	}
	return records[len(records)-n:]
}

// FilterByCategory returns the records whose category equals name, in
// append order.
func (f *Facade) FilterByCategory(name string) []record.Record {
	out := []record.Record{}
	for _, r := range f.LoadAll() {
		if r.Category == name {
			out = append(out, r)
		}
	}
	return out
}

// Categories returns the distinct non-empty categories in first-seen order.
func (f *Facade) Categories() []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range f.LoadAll() {
		if r.Category == "" || seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}

// Append writes rec to the log.
func (f *Facade) Append(rec record.Record) error {
	return f.store.Append(rec)
}

// Statistics aggregates the current log.
func (f *Facade) Statistics() stats.Result {
	return f.stats.Compute(f.LoadAll())
}

// Clear deletes the log. It reports false when there was nothing to clear.
func (f *Facade) Clear() (bool, error) {
	return f.store.Clear()
}
