package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// The Redis tests need a live Redis/Valkey server and skip themselves
// unless REDIS_ADDRESS is set (e.g. "localhost:6379"). They use DB 15 and
// flush it between tests.

func redisAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("set REDIS_ADDRESS to run Redis cache tests")
	}
	return addr
}

func flushRedisTestDB(t *testing.T, addr string) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flushing Redis test DB: %v", err)
	}
}

func newRedisTestCache(t *testing.T, size int, ttl time.Duration, onEvict EvictCallback) Cache {
	t.Helper()
	addr := redisAddr(t)
	flushRedisTestDB(t, addr)
	c, err := New("redis", ProviderConfig{
		Size:         size,
		TTL:          ttl,
		RedisAddress: addr,
		RedisDB:      15,
		OnEvict:      onEvict,
	})
	if err != nil {
		t.Fatalf("New redis cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_GetSet(t *testing.T) {
	c := newRedisTestCache(t, 100, 10*time.Second, nil)

	val, ok := c.Get("payload:subdl:1-1")
	if ok {
		t.Fatal("expected a miss on a flushed DB")
	}
	if val != nil {
		t.Fatalf("expected nil value on miss, got %v", val)
	}

	c.Set("payload:subdl:1-1", []byte("zip bytes"))
	val, ok = c.Get("payload:subdl:1-1")
	if !ok || string(val) != "zip bytes" {
		t.Fatalf("got %q, %v", val, ok)
	}
}

func TestRedisCache_Contains(t *testing.T) {
	c := newRedisTestCache(t, 100, 10*time.Second, nil)

	if c.Contains("absent") {
		t.Fatal("absent key reported as present")
	}
	c.Set("present", []byte("data"))
	if !c.Contains("present") {
		t.Fatal("stored key reported as absent")
	}
}

func TestRedisCache_Len(t *testing.T) {
	c := newRedisTestCache(t, 100, 10*time.Second, nil)

	if n := c.Len(); n != 0 {
		t.Fatalf("Len = %d on a flushed DB", n)
	}
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	if c.Len() != 2 {
		t.Fatalf("Len = %d after two Sets", c.Len())
	}
}

func TestRedisCache_LRUEviction(t *testing.T) {
	var evicted []string
	onEvict := func(key string, _ []byte) {
		evicted = append(evicted, key)
	}

	c := newRedisTestCache(t, 2, 10*time.Second, onEvict)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))

	if c.Contains("a") {
		t.Fatal("oldest key survived over-capacity Set")
	}
	if !c.Contains("b") || !c.Contains("c") {
		t.Fatal("surviving keys missing")
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Fatalf("evicted %v, want the oldest key only", evicted)
	}
}

func TestRedisCache_GetPromotesEntry(t *testing.T) {
	c := newRedisTestCache(t, 2, 10*time.Second, nil)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	_, _ = c.Get("a")

	c.Set("c", []byte("3"))

	if c.Contains("b") {
		t.Fatal("untouched key survived while the touched one should")
	}
	if !c.Contains("a") || !c.Contains("c") {
		t.Fatal("touched and newest keys missing")
	}
}

func TestRedisCache_Close(t *testing.T) {
	addr := redisAddr(t)
	flushRedisTestDB(t, addr)
	c, err := New("redis", ProviderConfig{
		Size:         10,
		TTL:          time.Minute,
		RedisAddress: addr,
		RedisDB:      15,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
