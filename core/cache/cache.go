// Package cache provides the LRU store that owns per-sheet row caches.
// The registry keys entries by (sheet, language, schema id) and evicts or
// invalidates them explicitly.
package cache

import (
	"container/list"
	"sync"
)

// Stats contains cache statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	MaxSize   int
}

// Store is a thread-safe LRU cache. A MaxSize of 0 means unlimited.
type Store[K comparable, V any] struct {
	mu      sync.Mutex
	maxSize int
	onEvict func(K, V)
	entries map[K]*list.Element
	mru     *list.List
	stats   Stats
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// New creates an LRU store holding at most maxSize entries.
func New[K comparable, V any](maxSize int) *Store[K, V] {
	if maxSize < 0 {
		maxSize = 0
	}
	return &Store[K, V]{
		maxSize: maxSize,
		entries: make(map[K]*list.Element),
		mru:     list.New(),
	}
}

// OnEvict registers a callback invoked for every evicted or removed entry.
// Must be set before concurrent use.
func (s *Store[K, V]) OnEvict(fn func(K, V)) { s.onEvict = fn }

// Get retrieves a value, refreshing its recency.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		s.stats.Misses++
		var zero V
		return zero, false
	}
	s.mru.MoveToFront(el)
	s.stats.Hits++
	return el.Value.(*entry[K, V]).value, true
}

// GetOrCreate returns the cached value for key, creating and inserting it
// on a miss. The create function runs under the store lock, so exactly one
// value is ever created per key while it remains cached.
func (s *Store[K, V]) GetOrCreate(key K, create func() V) V {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[key]; ok {
		s.mru.MoveToFront(el)
		s.stats.Hits++
		return el.Value.(*entry[K, V]).value
	}
	s.stats.Misses++
	v := create()
	s.put(key, v)
	return v
}

// Put stores a value, evicting the least recently used entry if full.
func (s *Store[K, V]) Put(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, value)
}

func (s *Store[K, V]) put(key K, value V) {
	if el, ok := s.entries[key]; ok {
		s.mru.MoveToFront(el)
		el.Value.(*entry[K, V]).value = value
		return
	}
	s.entries[key] = s.mru.PushFront(&entry[K, V]{key: key, value: value})
	if s.maxSize > 0 && s.mru.Len() > s.maxSize {
		if el := s.mru.Back(); el != nil {
			s.remove(el)
			s.stats.Evictions++
		}
	}
}

// Remove drops one entry. It is the invalidation entry point for a single
// (sheet, language, schema) cache.
func (s *Store[K, V]) Remove(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[key]; ok {
		s.remove(el)
	}
}

// Clear drops every entry.
func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.mru.Len() > 0 {
		s.remove(s.mru.Back())
	}
}

// Len returns the number of cached entries.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mru.Len()
}

// Stats returns a snapshot of the store's counters.
func (s *Store[K, V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Size = s.mru.Len()
	st.MaxSize = s.maxSize
	return st
}

func (s *Store[K, V]) remove(el *list.Element) {
	e := el.Value.(*entry[K, V])
	s.mru.Remove(el)
	delete(s.entries, e.key)
	if s.onEvict != nil {
		s.onEvict(e.key, e.value)
	}
}
