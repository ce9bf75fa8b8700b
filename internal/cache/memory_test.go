package cache

import (
	"testing"
	"time"
)

func newMemoryTestCache(t *testing.T, size int) Cache {
	t.Helper()
	c, err := New("memory", ProviderConfig{Size: size, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New memory cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := newMemoryTestCache(t, 10)

	val, ok := c.Get("payload:subdl:1-1")
	if ok {
		t.Fatal("expected a miss before any Set")
	}
	if val != nil {
		t.Fatalf("expected nil value on miss, got %v", val)
	}

	c.Set("payload:subdl:1-1", []byte("zip bytes"))
	val, ok = c.Get("payload:subdl:1-1")
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if string(val) != "zip bytes" {
		t.Fatalf("got %q", val)
	}
}

func TestMemoryCache_Contains(t *testing.T) {
	c := newMemoryTestCache(t, 10)

	if c.Contains("absent") {
		t.Fatal("absent key reported as present")
	}
	c.Set("titlovi:page:film-1", []byte("<html>"))
	if !c.Contains("titlovi:page:film-1") {
		t.Fatal("stored key reported as absent")
	}
}

func TestMemoryCache_Len(t *testing.T) {
	c := newMemoryTestCache(t, 10)

	if c.Len() != 0 {
		t.Fatalf("Len = %d on a fresh cache", c.Len())
	}
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	if c.Len() != 2 {
		t.Fatalf("Len = %d after two Sets", c.Len())
	}
}

func TestMemoryCache_Eviction(t *testing.T) {
	var evicted []string
	onEvict := func(key string, _ []byte) {
		evicted = append(evicted, key)
	}

	c, err := New("memory", ProviderConfig{Size: 2, TTL: time.Hour, OnEvict: onEvict})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Fatalf("evicted %v, want the oldest key only", evicted)
	}
	if c.Contains("a") {
		t.Fatal("evicted key still present")
	}
	if !c.Contains("b") || !c.Contains("c") {
		t.Fatal("surviving keys missing")
	}
}

func TestMemoryCache_Overwrite(t *testing.T) {
	c := newMemoryTestCache(t, 10)

	c.Set("key", []byte("v1"))
	c.Set("key", []byte("v2"))

	val, ok := c.Get("key")
	if !ok || string(val) != "v2" {
		t.Fatalf("got %q, %v", val, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d after overwrite", c.Len())
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c, err := New("memory", ProviderConfig{Size: 10, TTL: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set("short-lived", []byte("x"))
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("short-lived"); ok {
		t.Fatal("entry survived past its TTL")
	}
}
