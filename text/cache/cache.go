// Package cache provides a sharded LRU cache for text layouts.
//
// Layout is deterministic, so a layout is fully identified by its input:
// the concatenated span text, the span structure (boundaries, fonts,
// colors), and the width constraint. Keys capture all of these; two
// contents differing in a single rune hash to different keys and never
// collide on an entry.
package cache

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ui/text"
)

const (
	// DefaultShardCount is a power of 2 so shard selection is a mask.
	DefaultShardCount = 16

	// DefaultCapacity is the default maximum entries per shard.
	DefaultCapacity = 256

	shardMask = DefaultShardCount - 1
)

// Key identifies one laid-out block in the cache. Every input that affects
// the layout result is folded in.
type Key struct {
	// ContentHash is the FNV-1a hash of all span text in order.
	ContentHash uint64

	// StructureHash covers span boundaries, fonts, colors and inline
	// boxes, so restyling a span misses even when the text is unchanged.
	StructureHash uint64

	// WidthBits is the IEEE 754 bit pattern of the width constraint.
	// Bit patterns match exactly, avoiding float comparison issues.
	WidthBits uint32
}

// NewKey builds the cache key for a span slice and width constraint.
func NewKey(spans []text.Span, maxWidth float32) Key {
	content := fnv.New64a()
	structure := fnv.New64a()
	var buf [8]byte
	for _, sp := range spans {
		_, _ = content.Write([]byte(sp.Text))

		binary.LittleEndian.PutUint64(buf[:], uint64(len(sp.Text)))
		_, _ = structure.Write(buf[:])
		_, _ = structure.Write([]byte(sp.Font.Family))
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(sp.Font.Size))
		binary.LittleEndian.PutUint16(buf[4:6], sp.Font.Weight)
		buf[6] = byte(sp.Font.Style)
		buf[7] = 0
		_, _ = structure.Write(buf[:])
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(sp.Font.LineHeight))
		_, _ = structure.Write(buf[:4])
		for _, c := range [4]float32{sp.Color.R, sp.Color.G, sp.Color.B, sp.Color.A} {
			binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(c))
			_, _ = structure.Write(buf[:4])
		}
		if sp.Box != nil {
			binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(sp.Box.Width))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(sp.Box.Height))
			_, _ = structure.Write(buf[:])
		}
	}
	return Key{
		ContentHash:   content.Sum64(),
		StructureHash: structure.Sum64(),
		WidthBits:     math.Float32bits(maxWidth),
	}
}

func (k *Key) shardHash() uint64 {
	h := fnv.New64a()
	var buf [20]byte
	binary.LittleEndian.PutUint64(buf[0:], k.ContentHash)
	binary.LittleEndian.PutUint64(buf[8:], k.StructureHash)
	binary.LittleEndian.PutUint32(buf[16:], k.WidthBits)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// LayoutCache is a thread-safe, sharded LRU cache mapping layout inputs to
// computed layouts. Statistics are atomic so reads allocate nothing.
type LayoutCache struct {
	shards   [DefaultShardCount]*shard
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	lru     *lruList[Key]
}

type entry struct {
	value *text.Layout
	node  *lruNode[Key]
}

// NewLayoutCache creates a cache with the given per-shard capacity.
// Non-positive capacities use DefaultCapacity.
func NewLayoutCache(capacity int) *LayoutCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &LayoutCache{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &shard{
			entries: make(map[Key]*entry),
			lru:     newLRUList[Key](),
		}
	}
	return c
}

func (c *LayoutCache) getShard(key *Key) *shard {
	return c.shards[key.shardHash()&shardMask]
}

// Get retrieves a cached layout, refreshing its LRU position on a hit.
func (c *LayoutCache) Get(key Key) (*text.Layout, bool) {
	s := c.getShard(&key)

	s.mu.RLock()
	_, exists := s.entries[key]
	s.mu.RUnlock()
	if !exists {
		c.misses.Add(1)
		return nil, false
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}
	s.lru.MoveToFront(e.node)
	v := e.value
	s.mu.Unlock()

	c.hits.Add(1)
	return v, true
}

// GetOrCreate returns the cached layout or computes and stores it. The
// create function runs with the shard lock held, preventing duplicate
// computation of the same key.
func (c *LayoutCache) GetOrCreate(key Key, create func() *text.Layout) *text.Layout {
	s := c.getShard(&key)

	s.mu.RLock()
	_, exists := s.entries[key]
	s.mu.RUnlock()
	if exists {
		s.mu.Lock()
		if e, ok := s.entries[key]; ok {
			s.lru.MoveToFront(e.node)
			v := e.value
			s.mu.Unlock()
			c.hits.Add(1)
			return v
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		s.lru.MoveToFront(e.node)
		c.hits.Add(1)
		return e.value
	}
	c.misses.Add(1)

	v := create()
	if v == nil {
		return nil
	}
	for s.lru.Len() >= c.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
	node := s.lru.PushFront(key)
	s.entries[key] = &entry{value: v, node: node}
	return v
}

// Set stores a layout, evicting the oldest entries past capacity.
func (c *LayoutCache) Set(key Key, value *text.Layout) {
	if value == nil {
		return
	}
	s := c.getShard(&key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.value = value
		s.lru.MoveToFront(e.node)
		return
	}
	for s.lru.Len() >= c.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
	node := s.lru.PushFront(key)
	s.entries[key] = &entry{value: value, node: node}
}

// Clear removes all entries.
func (c *LayoutCache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[Key]*entry)
		s.lru.Clear()
		s.mu.Unlock()
	}
}

// Len returns the total entry count across shards.
func (c *LayoutCache) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}

// Stats are point-in-time cache counters.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
}

// Stats returns current counters. Mostly lock-free.
func (c *LayoutCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Len:       c.Len(),
		Hits:      hits,
		Misses:    misses,
		HitRate:   rate,
		Evictions: c.evictions.Load(),
	}
}
