package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "balance:A:USD", []byte("100.5"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "balance:A:USD")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != "100.5" {
		t.Fatalf("expected 100.5, got %s", val)
	}

	if ttl := mr.TTL(cache.prefix + "balance:A:USD"); ttl != time.Minute {
		t.Fatalf("expected 1m TTL, got %s", ttl)
	}
}

func TestCacheGetMissing(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	val, err := NewCache(client).Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("expected no error for missing key, got %v", err)
	}
	if val != nil {
		t.Fatalf("expected nil value, got %s", val)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	for _, k := range []string{"balance:A:USD", "balance:B:USD", "balance:C:USD"} {
		if err := cache.Set(ctx, k, []byte("1"), time.Minute); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	if err := cache.Delete(ctx, "balance:A:USD", "balance:B:USD"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if mr.Exists(cache.prefix+"balance:A:USD") || mr.Exists(cache.prefix+"balance:B:USD") {
		t.Fatalf("expected deleted keys to be gone")
	}
	if !mr.Exists(cache.prefix + "balance:C:USD") {
		t.Fatalf("expected untouched key to remain")
	}

	if err := cache.Delete(ctx); err != nil {
		t.Fatalf("delete with no keys failed: %v", err)
	}
}

func TestCacheUnavailable(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()
	mr.Close()

	if _, err := NewCache(client).Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
