package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisCountCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCountCache(client, time.Minute), mr
}

func TestRedisCountCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	hit, err := c.Get(ctx, FollowersKey(7))
	if err != nil || hit.Found || hit.Gen != 0 {
		t.Fatalf("expected miss at generation 0, got %+v err=%v", hit, err)
	}

	if err := c.Set(ctx, FollowersKey(7), 3, hit.Gen); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	hit, err = c.Get(ctx, FollowersKey(7))
	if err != nil || !hit.Found || hit.Count != 3 {
		t.Fatalf("expected hit with 3, got %+v err=%v", hit, err)
	}
	if ttl := mr.TTL(FollowersKey(7)); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %v", ttl)
	}

	if err := c.Invalidate(ctx, FollowersKey(7), FollowingKey(7)); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if mr.Exists(FollowersKey(7)) {
		t.Fatal("expected key to be removed")
	}
	hit, err = c.Get(ctx, FollowersKey(7))
	if err != nil || hit.Found || hit.Gen != 1 {
		t.Fatalf("expected miss at generation 1, got %+v err=%v", hit, err)
	}
}

func TestRedisCountCacheSkipsWriteAfterInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := PostsKey(4)

	before, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// a mutation lands between the load and the write-back
	if err := c.Invalidate(ctx, key); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if err := c.Set(ctx, key, 10, before.Gen); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("count loaded before the invalidation must not be cached")
	}

	after, _ := c.Get(ctx, key)
	if err := c.Set(ctx, key, 11, after.Gen); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if hit, _ := c.Get(ctx, key); !hit.Found || hit.Count != 11 {
		t.Fatalf("expected fresh count to be cached, got %+v", hit)
	}
}

func TestRedisCountCacheCorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	if err := mr.Set(PostsKey(1), "not-a-number"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if hit, err := c.Get(context.Background(), PostsKey(1)); err == nil || hit.Found {
		t.Fatalf("expected parse error, got %+v err=%v", hit, err)
	}
}

func TestKeysAreDistinctPerCount(t *testing.T) {
	if FollowersKey(1) == FollowingKey(1) || FollowingKey(1) == PostsKey(1) {
		t.Fatal("count keys must not collide")
	}
	if FollowersKey(12) != "quillpost:followers:12" {
		t.Fatalf("unexpected key %q", FollowersKey(12))
	}
}
