package project

import (
	"sync"
	"time"

	"github.com/Faultbox/picocad-tools/pkg/picocad"
)

type cacheEntry struct {
	model   *picocad.Model
	modTime time.Time
	size    int64
	used    uint64
}

// Cache keeps decoded models keyed by file path. An entry is only served
// while the file's modification time and size are unchanged. Models are
// copied on the way in and out so callers may mutate what they get.
type Cache struct {
	entries    map[string]*cacheEntry
	maxEntries int
	tick       uint64
	mu         sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a cache holding at most maxEntries models. A value of
// zero or less disables caching.
func NewCache(maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
	}
}

// Get returns the model cached for path if the file is unchanged.
func (c *Cache) Get(path string, modTime time.Time, size int64) (*picocad.Model, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if ok && (!e.modTime.Equal(modTime) || e.size != size) {
		delete(c.entries, path)
		ok = false
	}
	if !ok {
		c.misses++
		return nil, false
	}

	c.hits++
	c.tick++
	e.used = c.tick
	return e.model.Clone(), true
}

// Put stores a copy of m for path, evicting the least recently used entry
// when full.
func (c *Cache) Put(path string, modTime time.Time, size int64, m *picocad.Model) {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[path]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.tick++
	c.entries[path] = &cacheEntry{model: m.Clone(), modTime: modTime, size: size, used: c.tick}
}

func (c *Cache) evictOldest() {
	var oldest string
	var oldestTick uint64
	for path, e := range c.entries {
		if oldest == "" || e.used < oldestTick {
			oldest, oldestTick = path, e.used
		}
	}
	delete(c.entries, oldest)
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Clear drops every entry and resets the statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.hits = 0
	c.misses = 0
}

// Len returns the number of cached models.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
