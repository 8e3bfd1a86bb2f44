package cache

import (
	"sync"
	"time"
)

// MemoryCacheEntry wraps a cached value with access tracking
type MemoryCacheEntry[V any] struct {
	Value        V
	LastAccessed int64
}

// Stats reports cache effectiveness
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// MemoryCache is a concurrency-safe map used to memoize pure computations.
// Values are never invalidated; callers Clear when the inputs change.
type MemoryCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*MemoryCacheEntry[V]
	hits    int64
	misses  int64
}

func NewMemoryCache[K comparable, V any]() *MemoryCache[K, V] {
	return &MemoryCache[K, V]{
		entries: make(map[K]*MemoryCacheEntry[V]),
	}
}

func (mc *MemoryCache[K, V]) Set(key K, value V) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.entries[key] = &MemoryCacheEntry[V]{Value: value, LastAccessed: time.Now().Unix()}
}

func (mc *MemoryCache[K, V]) Get(key K) (V, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[key]
	if !ok {
		mc.misses++
		var zero V
		return zero, false
	}
	mc.hits++
	entry.LastAccessed = time.Now().Unix()
	return entry.Value, true
}

// GetOrCompute returns the cached value for key, computing and storing it on a miss.
// compute must be pure: concurrent misses on the same key may both run it.
func (mc *MemoryCache[K, V]) GetOrCompute(key K, compute func() V) V {
	if v, ok := mc.Get(key); ok {
		return v
	}
	v := compute()
	mc.Set(key, v)
	return v
}

func (mc *MemoryCache[K, V]) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.entries)
}

func (mc *MemoryCache[K, V]) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.entries = make(map[K]*MemoryCacheEntry[V])
	mc.hits = 0
	mc.misses = 0
}

func (mc *MemoryCache[K, V]) Stats() Stats {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return Stats{Entries: len(mc.entries), Hits: mc.hits, Misses: mc.misses}
}
