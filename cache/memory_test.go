package cache

import (
	"testing"
	"time"
)

func TestMemoryHitMiss(t *testing.T) {
	c := NewMemory(WithTTL(time.Minute))

	if _, ok := c.Get("animal|ids=anim_1"); ok {
		t.Fatal("expected cache miss")
	}

	c.Set("animal|ids=anim_1", true)
	got, ok := c.Get("animal|ids=anim_1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != true {
		t.Fatalf("got %v", got)
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	c := NewMemory(WithTTL(1 * time.Millisecond))
	c.Set("k", 1)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestMemoryInvalidatePrefix(t *testing.T) {
	c := NewMemory()
	c.Set("owned|animal|user_1|a", 1)
	c.Set("owned|animal|user_1|b", 2)
	c.Set("owned|animal|user_2|a", 3)

	c.InvalidatePrefix("owned|animal|user_1|")

	if _, ok := c.Get("owned|animal|user_1|a"); ok {
		t.Fatal("entry should be invalidated")
	}
	if _, ok := c.Get("owned|animal|user_2|a"); !ok {
		t.Fatal("other subject's entry should survive")
	}
}

func TestMemoryEvictsAtCapacity(t *testing.T) {
	c := NewMemory(WithMaxSize(2))
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	if c.Len() > 2 {
		t.Fatalf("len = %d, want <= 2", c.Len())
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("newest entry should be present")
	}
}

func TestMemoryFlush(t *testing.T) {
	c := NewMemory()
	c.Set("a", 1)
	c.Flush()
	if c.Len() != 0 {
		t.Fatalf("len = %d after flush", c.Len())
	}
}
