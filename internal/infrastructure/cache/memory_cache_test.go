package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)
	defer c.Close()

	if _, ok := c.Get("missing"); ok {
		t.Fatal("unexpected hit")
	}
	c.Set("k", "ls -la")
	got, ok := c.Get("k")
	if !ok || got != "ls -la" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
}

func TestMemoryCache_IgnoresEmptyKey(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)
	defer c.Close()

	c.Set("", "value")
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0", c.Len())
	}
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache(20*time.Millisecond, 10)
	defer c.Close()

	c.Set("k", "v")
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestMemoryCache_Capacity(t *testing.T) {
	c := NewMemoryCache(time.Minute, 2)
	defer c.Close()

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should be evicted")
	}
}

func TestKey_Distinguishes(t *testing.T) {
	if Key("ab", "c") == Key("a", "bc") {
		t.Fatal("keys collide across part boundaries")
	}
	if Key("x", 1) != Key("x", 1) {
		t.Fatal("key not deterministic")
	}
}
