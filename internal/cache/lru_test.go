package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLRUCache_TTL(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](4, time.Minute).WithClock(clk.now)

	c.Set("categories", "v1")
	if got, ok := c.Get("categories"); !ok || got != "v1" {
		t.Fatalf("Get() = %q, %v, want v1, true", got, ok)
	}

	clk.t = clk.t.Add(time.Minute)
	if _, ok := c.Get("categories"); ok {
		t.Error("Get() after TTL returned a value")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0 after expired read", c.Size())
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Hour)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a becomes most recent
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry was not evicted")
	}
	for _, key := range []string{"a", "c"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("Get(%q) missing", key)
		}
	}
}

func TestLRUCache_Delete(t *testing.T) {
	c := NewLRUCache[int](8, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	c.Delete("missing")
	if _, ok := c.Get("a"); ok {
		t.Error("Delete() left the entry")
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d after Delete, want 1", c.Size())
	}
}

func TestManager_Sweep(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int](8, time.Second).WithClock(clk.now)
	c.Set("a", 1)
	c.Set("b", 2)

	m := NewManager(nil)
	m.Register(c)

	if n := m.Sweep(); n != 0 {
		t.Errorf("Sweep() = %d before expiry, want 0", n)
	}
	clk.t = clk.t.Add(2 * time.Second)
	if n := m.Sweep(); n != 2 {
		t.Errorf("Sweep() = %d, want 2", n)
	}

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}
