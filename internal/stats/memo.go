package stats

import (
	"container/list"
	"sync"
)

// MemoStats counts memo table activity.
type MemoStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

type memoEntry struct {
	key    string
	result Result
}

// memo is a fixed-capacity LRU map from fingerprint to Result.
// The front of the list is the most recently used entry.
type memo struct {
	mu       sync.Mutex
	capacity int
	lru      *list.List
	items    map[string]*list.Element
	stats    MemoStats
}

func newMemo(capacity int) *memo {
	return &memo{
		capacity: capacity,
		lru:      list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (m *memo) get(key string) (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		m.stats.Misses++
		return Result{}, false
	}
	m.lru.MoveToFront(elem)
	m.stats.Hits++
	return elem.Value.(*memoEntry).result, true
}

func (m *memo) put(key string, result Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[key]; ok {
		elem.Value.(*memoEntry).result = result
		m.lru.MoveToFront(elem)
		return
	}

	m.items[key] = m.lru.PushFront(&memoEntry{key: key, result: result})
	for m.lru.Len() > m.capacity {
		m.evictOldest()
	}
}

func (m *memo) evictOldest() {
	elem := m.lru.Back()
	if elem == nil {
		return
	}
	m.lru.Remove(elem)
	delete(m.items, elem.Value.(*memoEntry).key)
	m.stats.Evictions++
}

func (m *memo) snapshot() MemoStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.Size = m.lru.Len()
	return s
}
