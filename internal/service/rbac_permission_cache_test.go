package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestInMemoryRBACPermissionCacheStoreGetSetInvalidate(t *testing.T) {
	store := NewInMemoryRBACPermissionCacheStore()
	ctx := context.Background()

	if err := store.Set(ctx, 1, "jti-a", []string{"users:administer"}, time.Minute); err != nil {
		t.Fatalf("set cache: %v", err)
	}
	if err := store.Set(ctx, 2, "jti-b", []string{"reports:administer"}, time.Minute); err != nil {
		t.Fatalf("set cache: %v", err)
	}
	got, ok, err := store.Get(ctx, 1, "jti-a")
	if err != nil || !ok {
		t.Fatalf("expected cache hit, ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0] != "users:administer" {
		t.Fatalf("unexpected cached permissions: %v", got)
	}
	if _, ok, _ := store.Get(ctx, 1, "jti-other"); ok {
		t.Fatal("expected miss for a different session")
	}

	if err := store.InvalidateUser(ctx, 1); err != nil {
		t.Fatalf("invalidate user: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 1, "jti-a"); ok {
		t.Fatal("expected miss after user invalidation")
	}
	if _, ok, _ := store.Get(ctx, 2, "jti-b"); !ok {
		t.Fatal("expected other user to stay cached")
	}

	if err := store.InvalidateAll(ctx); err != nil {
		t.Fatalf("invalidate all: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 2, "jti-b"); ok {
		t.Fatal("expected miss after global invalidation")
	}
}

func TestInMemoryRBACPermissionCacheStoreExpiry(t *testing.T) {
	store := NewInMemoryRBACPermissionCacheStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Set(ctx, 3, "jti", []string{"users:read"}, time.Second); err != nil {
		t.Fatalf("set cache: %v", err)
	}
	now = now.Add(2 * time.Second)
	if _, ok, _ := store.Get(ctx, 3, "jti"); ok {
		t.Fatal("expected cache entry to expire")
	}
}

func TestNoopRBACPermissionCacheStoreAlwaysMisses(t *testing.T) {
	store := NewNoopRBACPermissionCacheStore()
	ctx := context.Background()
	if err := store.Set(ctx, 1, "jti", []string{"users:read"}, time.Minute); err != nil {
		t.Fatalf("set noop cache: %v", err)
	}
	if _, ok, err := store.Get(ctx, 1, "jti"); ok || err != nil {
		t.Fatalf("expected noop miss, ok=%v err=%v", ok, err)
	}
}

func newRedisCacheStoreForTest(t *testing.T) (*RedisRBACPermissionCacheStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRBACPermissionCacheStore(client, "test_perm"), mr
}

func TestRedisRBACPermissionCacheStoreRoundTripAndEpochs(t *testing.T) {
	store, _ := newRedisCacheStoreForTest(t)
	ctx := context.Background()

	if err := store.Set(ctx, 9, "jti-9", []string{"filters:administer", "users:administer"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, 10, "jti-10", []string{"users:read"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := store.Get(ctx, 9, "jti-9")
	if err != nil || !ok || len(got) != 2 || got[1] != "users:administer" {
		t.Fatalf("unexpected get result: %v ok=%v err=%v", got, ok, err)
	}

	if err := store.InvalidateUser(ctx, 9); err != nil {
		t.Fatalf("invalidate user: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 9, "jti-9"); ok {
		t.Fatal("expected miss after user epoch bump")
	}
	if _, ok, _ := store.Get(ctx, 10, "jti-10"); !ok {
		t.Fatal("expected unrelated user to stay cached")
	}

	if err := store.InvalidateAll(ctx); err != nil {
		t.Fatalf("invalidate all: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 10, "jti-10"); ok {
		t.Fatal("expected miss after global epoch bump")
	}
}

func TestRedisRBACPermissionCacheStoreHonoursTTL(t *testing.T) {
	store, mr := newRedisCacheStoreForTest(t)
	ctx := context.Background()

	if err := store.Set(ctx, 4, "jti", []string{"users:read"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, ok, err := store.Get(ctx, 4, "jti"); ok || err != nil {
		t.Fatalf("expected expired entry, ok=%v err=%v", ok, err)
	}
}

func TestBuildRBACPermissionCacheKeyDefaultsSession(t *testing.T) {
	if got := buildRBACPermissionCacheKey(1, 2, 3, ""); got != "rbacperm:g1:u2:user:3:s:none" {
		t.Fatalf("unexpected key %q", got)
	}
}
