package project

import (
	"testing"
	"time"
)

func TestCache_GetPut(t *testing.T) {
	c := NewCache(2)
	now := time.Now()

	if _, ok := c.Get("a", now, 10); ok {
		t.Error("expected miss on empty cache")
	}

	c.Put("a", now, 10, sampleModel("a"))
	m, ok := c.Get("a", now, 10)
	if !ok || m.Header.Name != "a" {
		t.Fatalf("expected hit for a, got %v", ok)
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d and %d", hits, misses)
	}
}

func TestCache_StaleEntry(t *testing.T) {
	c := NewCache(2)
	now := time.Now()
	c.Put("a", now, 10, sampleModel("a"))

	if _, ok := c.Get("a", now.Add(time.Second), 10); ok {
		t.Error("expected miss after mtime change")
	}
	if c.Len() != 0 {
		t.Errorf("expected stale entry to be dropped, got %d", c.Len())
	}

	c.Put("a", now, 10, sampleModel("a"))
	if _, ok := c.Get("a", now, 11); ok {
		t.Error("expected miss after size change")
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	now := time.Now()

	c.Put("a", now, 1, sampleModel("a"))
	c.Put("b", now, 1, sampleModel("b"))
	c.Get("a", now, 1)
	c.Put("c", now, 1, sampleModel("c"))

	if _, ok := c.Get("b", now, 1); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a", now, 1); !ok {
		t.Error("expected a to survive")
	}
	if _, ok := c.Get("c", now, 1); !ok {
		t.Error("expected c to be cached")
	}
}

func TestCache_CopiesModels(t *testing.T) {
	c := NewCache(1)
	now := time.Now()

	m := sampleModel("a")
	c.Put("a", now, 1, m)
	m.Meshes[0].Name = "changed after put"

	got, _ := c.Get("a", now, 1)
	if got.Meshes[0].Name != "plane" {
		t.Errorf("expected stored copy to be unaffected, got %s", got.Meshes[0].Name)
	}
}

func TestCache_DisabledAndClear(t *testing.T) {
	off := NewCache(0)
	off.Put("a", time.Now(), 1, sampleModel("a"))
	if off.Len() != 0 {
		t.Error("expected a zero-sized cache to store nothing")
	}

	c := NewCache(4)
	c.Put("a", time.Now(), 1, sampleModel("a"))
	c.Get("a", time.Time{}, 0)
	c.Clear()
	if hits, misses := c.Stats(); c.Len() != 0 || hits != 0 || misses != 0 {
		t.Errorf("expected empty cache with reset stats, got len=%d hits=%d misses=%d", c.Len(), hits, misses)
	}
}
