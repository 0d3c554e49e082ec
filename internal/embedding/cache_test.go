package embedding

import "testing"

func TestCachePutGet(t *testing.T) {
	c := NewCache(2)
	c.Put("a", []float32{1})
	vec, ok := c.Get("a")
	if !ok || len(vec) != 1 || vec[0] != 1 {
		t.Fatalf("got %v %v", vec, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit for missing key")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Put("a", []float32{1})
	c.Put("b", []float32{2})
	c.Get("a") // a is now most recently used
	c.Put("c", []float32{3})

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive eviction")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestCacheUpdateExisting(t *testing.T) {
	c := NewCache(2)
	c.Put("a", []float32{1})
	c.Put("a", []float32{9})
	vec, _ := c.Get("a")
	if vec[0] != 9 {
		t.Errorf("got %v, want updated value", vec)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}
