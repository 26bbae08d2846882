package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type entry struct {
	credential string
}

// TestCache_BasicOperations tests Get, Set, and Delete.
func TestCache_BasicOperations(t *testing.T) {
	c := New[*entry](5*time.Minute, 10*time.Minute)

	t.Run("Set and Get", func(t *testing.T) {
		c.Set("key1", &entry{credential: "a"})

		val, found := c.Get("key1")
		if !found {
			t.Fatal("expected key1 to be found")
		}
		if val.credential != "a" {
			t.Errorf("expected credential a, got %q", val.credential)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		val, found := c.Get("nonexistent")
		if found || val != nil {
			t.Error("expected nonexistent key to not be found")
		}
	})

	t.Run("Set and Delete", func(t *testing.T) {
		c.Set("key2", &entry{})
		c.Delete("key2")

		if _, found := c.Get("key2"); found {
			t.Error("expected key2 to be deleted")
		}
	})

	t.Run("Delete non-existent key", func(_ *testing.T) {
		c.Delete("nonexistent")
	})
}

// TestCache_SetWithTTL tests custom TTL.
func TestCache_SetWithTTL(t *testing.T) {
	c := New[string](5*time.Minute, 10*time.Minute)

	c.SetWithTTL("expiring", "value", 50*time.Millisecond)
	if _, found := c.Get("expiring"); !found {
		t.Error("expected key to exist immediately")
	}

	time.Sleep(100 * time.Millisecond)

	if _, found := c.Get("expiring"); found {
		t.Error("expected key to be expired")
	}
}

// TestCache_Touch tests that Touch restarts the expiry.
func TestCache_Touch(t *testing.T) {
	c := New[string](80*time.Millisecond, time.Minute)
	c.Set("console", "v")

	for i := 0; i < 3; i++ {
		time.Sleep(40 * time.Millisecond)
		if _, ok := c.Touch("console"); !ok {
			t.Fatalf("entry expired after touch %d", i)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if _, ok := c.Touch("console"); ok {
		t.Error("expected entry to expire without touches")
	}
}

// TestCache_OnEvicted tests the eviction callback.
func TestCache_OnEvicted(t *testing.T) {
	c := New[*entry](time.Minute, time.Minute)

	var evicted atomic.Int32
	c.OnEvicted(func(key string, v *entry) {
		if key == "gone" && v.credential == "x" {
			evicted.Add(1)
		}
	})

	c.Set("gone", &entry{credential: "x"})
	c.Delete("gone")

	if got := evicted.Load(); got != 1 {
		t.Errorf("expected 1 eviction, got %d", got)
	}
}

// TestCache_Clear tests clearing all items.
func TestCache_Clear(t *testing.T) {
	c := New[int](5*time.Minute, 10*time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	if c.ItemCount() != 2 {
		t.Errorf("expected 2 items, got %d", c.ItemCount())
	}

	c.Clear()

	if c.ItemCount() != 0 {
		t.Errorf("expected 0 items after clear, got %d", c.ItemCount())
	}
}

// TestCache_GetStats tests statistics.
func TestCache_GetStats(t *testing.T) {
	c := New[int](5*time.Minute, 10*time.Minute)
	c.Set("a", 1)

	stats := c.GetStats()
	if stats.ItemCount != 1 {
		t.Errorf("expected 1 item, got %d", stats.ItemCount)
	}
	if stats.TTL != 5*time.Minute {
		t.Errorf("expected ttl 5m, got %s", stats.TTL)
	}
}

// TestCache_Concurrent tests concurrent access.
func TestCache_Concurrent(t *testing.T) {
	c := New[int](5*time.Minute, 10*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%26))
			c.Set(key, n)
			c.Touch(key)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.ItemCount() != 26 {
		t.Errorf("expected 26 items, got %d", c.ItemCount())
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c := New[*int](time.Minute, time.Minute)

	calls := 0
	create := func() *int {
		calls++
		n := calls
		return &n
	}
	first := c.GetOrSet("10.0.0.1", create)
	second := c.GetOrSet("10.0.0.1", create)

	if first != second {
		t.Error("expected the stored value on the second call")
	}
	if calls != 1 {
		t.Errorf("expected create to run once, ran %d times", calls)
	}
}
