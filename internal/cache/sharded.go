package cache

import (
	"hash/maphash"
	"sync"
	"sync/atomic"
)

const (
	// shardCount must be a power of two.
	shardCount = 16
	shardMask  = shardCount - 1

	// DefaultCapacity is the total capacity used when none is given.
	DefaultCapacity = 4096
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Sharded is a concurrent LRU cache. Each shard evicts independently, so
// the total capacity is approximate.
//
// Sharded is safe for concurrent use and must not be copied after creation.
type Sharded[K comparable, V any] struct {
	seed     maphash.Seed
	perShard int
	shards   [shardCount]shard[K, V]

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	order   lru[K, V]
}

// NewSharded returns a cache holding about capacity entries. A capacity
// of zero or less selects DefaultCapacity.
func NewSharded[K comparable, V any](capacity int) *Sharded[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Sharded[K, V]{
		seed:     maphash.MakeSeed(),
		perShard: max(1, (capacity+shardCount-1)/shardCount),
	}
	for i := range c.shards {
		c.shards[i].entries = make(map[K]*entry[K, V])
		c.shards[i].order.init()
	}
	return c
}

func (c *Sharded[K, V]) shardFor(key K) *shard[K, V] {
	return &c.shards[maphash.Comparable(c.seed, key)&shardMask]
}

// Get returns the value cached under key and marks it as recently used.
func (c *Sharded[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.order.touch(e)
	v := e.value
	s.mu.Unlock()
	c.hits.Add(1)
	return v, true
}

// Set stores value under key, evicting the least recently used entries of
// the key's shard when it is full.
func (c *Sharded[K, V]) Set(key K, value V) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	c.setLocked(s, key, value)
}

// GetOrCreate returns the cached value for key, calling create on a miss.
// create runs with the shard locked, so concurrent callers asking for the
// same key wait for one construction instead of racing.
func (c *Sharded[K, V]) GetOrCreate(key K, create func() V) V {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		s.order.touch(e)
		c.hits.Add(1)
		return e.value
	}
	c.misses.Add(1)
	v := create()
	c.setLocked(s, key, v)
	return v
}

func (c *Sharded[K, V]) setLocked(s *shard[K, V], key K, value V) {
	if e, ok := s.entries[key]; ok {
		e.value = value
		s.order.touch(e)
		return
	}
	for s.order.len >= c.perShard {
		old := s.order.back()
		s.order.unlink(old)
		delete(s.entries, old.key)
		c.evictions.Add(1)
	}
	s.entries[key] = s.order.pushFront(key, value)
}

// Delete removes key and reports whether it was present.
func (c *Sharded[K, V]) Delete(key K) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.order.unlink(e)
	delete(s.entries, key)
	return true
}

// Clear drops every entry. Counters are kept.
func (c *Sharded[K, V]) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.entries = make(map[K]*entry[K, V])
		s.order.init()
		s.mu.Unlock()
	}
}

// Len returns the number of cached entries.
func (c *Sharded[K, V]) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Stats returns a snapshot of the cache counters.
func (c *Sharded[K, V]) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Capacity:  c.perShard * shardCount,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
