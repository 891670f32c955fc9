package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestLRU_GetAdd(t *testing.T) {
	c := New[string, int](2)

	if _, ok := c.Get("a"); ok {
		t.Error("Get() on empty cache returned ok")
	}

	c.Add("a", 1)
	c.Add("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	// b is now least recently used
	c.Add("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v; want 3, true", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d; want 2", c.Len())
	}
}

func TestLRU_Update(t *testing.T) {
	c := New[string, int](2)
	c.Add("a", 1)
	c.Add("a", 10)

	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) = %d; want 10", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d; want 1", c.Len())
	}
}

func TestLRU_Stats(t *testing.T) {
	c := New[string, int](1)
	c.Add("a", 1)
	c.Get("a")
	c.Get("b")
	c.Add("b", 2)

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Evicts != 1 {
		t.Errorf("Stats() = %+v; want 1 hit, 1 miss, 1 evict", s)
	}
	if s.HitRate != 0.5 {
		t.Errorf("HitRate = %v; want 0.5", s.HitRate)
	}
	if s.Size != 1 || s.Capacity != 1 {
		t.Errorf("Size/Capacity = %d/%d; want 1/1", s.Size, s.Capacity)
	}
}

func TestLRU_Purge(t *testing.T) {
	c := New[string, int](4)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Len() = %d; want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) after Purge returned ok")
	}
}

func TestLRU_MinimumCapacity(t *testing.T) {
	c := New[int, int](0)
	c.Add(1, 1)
	c.Add(2, 2)
	if c.Len() != 1 {
		t.Errorf("Len() = %d; want 1", c.Len())
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := New[string, int](16)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("k%d", (g*i)%32)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 16 {
		t.Errorf("Len() = %d; want at most 16", c.Len())
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	c := New[string, int](64)
	for i := 0; i < 64; i++ {
		c.Add(fmt.Sprintf("k%d", i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("k7")
	}
}
