// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestLRU_BasicOperations(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, ok := c.Get(key)
		if !ok {
			t.Errorf("Expected to find key %q", key)
			continue
		}
		if got != want {
			t.Errorf("Get(%q) = %d, want %d", key, got, want)
		}
	}

	if c.Len() != 3 {
		t.Errorf("Expected len 3, got %d", c.Len())
	}
}

func TestLRU_EvictsLeastRecentlyTouched(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{1, 2, 5, 10} {
		t.Run(fmt.Sprintf("capacity_%d", capacity), func(t *testing.T) {
			t.Parallel()

			c := NewLRU[int, int](capacity)
			for i := 0; i <= capacity; i++ {
				c.Set(i, i)
			}

			if c.Len() != capacity {
				t.Fatalf("Expected len %d, got %d", capacity, c.Len())
			}
			if c.Has(0) {
				t.Error("Expected key 0 (least recently touched) to be evicted")
			}
			for i := 1; i <= capacity; i++ {
				if !c.Has(i) {
					t.Errorf("Expected key %d to be present", i)
				}
			}
		})
	}
}

func TestLRU_GetRefreshesRecency(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// 'a' becomes most recently used, so 'b' is now the eviction candidate
	c.Get("a")
	c.Set("d", 4)

	if _, found := c.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("Expected %q to be present", key)
		}
	}
}

func TestLRU_SetExistingKeyMovesToFrontWithoutGrowing(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	if c.Len() != 2 {
		t.Fatalf("Expected len 2, got %d", c.Len())
	}
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Expected replaced value 10, got %d", v)
	}

	// 'b' is now LRU
	c.Set("c", 3)
	if c.Has("b") {
		t.Error("Expected 'b' to be evicted after 'a' was rewritten")
	}
	if !c.Has("a") || !c.Has("c") {
		t.Error("Expected 'a' and 'c' to remain")
	}
}

func TestLRU_HasDoesNotAffectRecency(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Has("a") {
		t.Fatal("Expected 'a' to be present")
	}

	c.Set("c", 3)
	if c.Has("a") {
		t.Error("Has must not refresh recency; expected 'a' to be evicted")
	}
}

func TestLRU_GetEvictedKeyReportsAbsence(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, string](1)
	c.Set("a", "x")
	c.Set("b", "y")

	v, ok := c.Get("a")
	if ok {
		t.Errorf("Expected absence for evicted key, got %q", v)
	}
	if v != "" {
		t.Errorf("Expected zero value, got %q", v)
	}
}

func TestLRU_Clear(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, int](4)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Expected len 0 after Clear, got %d", c.Len())
	}
	if c.Has("a") {
		t.Error("Expected 'a' to be gone after Clear")
	}

	// Cache remains usable
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Expected c=3 after Clear, got %d, %v", v, ok)
	}
}

func TestLRU_NonPositiveCapacityClampsToOne(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{0, -1, -100} {
		c := NewLRU[string, int](capacity)
		if c.Capacity() != 1 {
			t.Errorf("NewLRU(%d).Capacity() = %d, want 1", capacity, c.Capacity())
		}
		c.Set("a", 1)
		c.Set("b", 2)
		if c.Len() != 1 || !c.Has("b") {
			t.Errorf("Expected only 'b' to remain for capacity %d", capacity)
		}
	}
}

func TestLRU_EvictionFollowsRecency(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, int](3)
	var evicted []string
	c.OnEvict(func(key string, _ int) {
		evicted = append(evicted, key)
	})

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")
	c.Set("d", 4)
	c.Set("e", 5)
	c.Set("f", 6)

	want := []string{"b", "c", "a"}
	if len(evicted) != len(want) {
		t.Fatalf("evicted = %v, want %v", evicted, want)
	}
	for i := range want {
		if evicted[i] != want[i] {
			t.Fatalf("evicted = %v, want %v", evicted, want)
		}
	}
}

func TestLRU_StatsAndEvictionHook(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, int](2)
	var evicted []string
	c.OnEvict(func(key string, _ int) {
		evicted = append(evicted, key)
	})

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("c")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
	if stats.Evictions != 1 {
		t.Errorf("Expected 1 eviction, got %d", stats.Evictions)
	}
	if stats.Size != 2 || stats.Capacity != 2 {
		t.Errorf("Expected size 2 capacity 2, got %d/%d", stats.Size, stats.Capacity)
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("Expected eviction hook for 'a', got %v", evicted)
	}
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	const capacity = 50
	c := NewLRU[int, int](capacity)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := (offset*1000 + i) % 200
				c.Set(key, i)
				c.Get(key)
				c.Has(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > capacity {
		t.Errorf("Len %d exceeds capacity %d", c.Len(), capacity)
	}
}

func BenchmarkLRU_SetGet(b *testing.B) {
	c := NewLRU[int, int](1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(i%2000, i)
		c.Get(i % 1500)
	}
}
