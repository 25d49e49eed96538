package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store, err := NewRedis(rdb, "hristest", time.Hour)
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	return store, mr
}

func TestRedisStoreContract(t *testing.T) {
	store, _ := newTestRedis(t)
	runStoreContract(t, store)
}

func TestRedisStoreKeysAreNamespaced(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedis(t)

	if err := store.Set(ctx, KeyMockToken, "tok"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !mr.Exists("hristest:" + KeyMockToken) {
		t.Fatal("expected namespaced key in redis")
	}
	if mr.Exists(KeyMockToken) {
		t.Fatal("bare key must not exist")
	}
}

func TestRedisStoreSessionExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedis(t)

	if err := store.Set(ctx, KeySOAPToken, "tok"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	mr.FastForward(2 * time.Hour)

	if _, err := store.Get(ctx, KeySOAPToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key to be absent, got %v", err)
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedis(t)
	mr.Close()

	if _, err := store.Get(ctx, KeyMockToken); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable after close, got %v", err)
	}
	if err := store.Set(ctx, KeyMockToken, "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on set, got %v", err)
	}
}
