package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	followersKeyPrefix = "quillpost:followers:"
	followingKeyPrefix = "quillpost:following:"
	postsKeyPrefix     = "quillpost:posts:"

	genSuffix = ":gen"
	// genTTL only bounds memory; an expired generation reads as 0, which
	// makes an in-flight Set skip rather than write.
	genTTL = 24 * time.Hour
)

// Lookup is the result of a cache read. Gen is the key's invalidation
// generation at the time of the read and must be handed back to Set.
type Lookup struct {
	Count int64
	Found bool
	Gen   int64
}

// CountCache caches aggregate counts keyed by user.
//
// Set stores a count only if the key has not been invalidated since the
// Get that returned gen, so a count loaded before a concurrent mutation
// is never written back after that mutation's Invalidate.
type CountCache interface {
	Get(ctx context.Context, key string) (Lookup, error)
	Set(ctx context.Context, key string, count, gen int64) error
	Invalidate(ctx context.Context, keys ...string) error
}

func FollowersKey(userID uint) string { return key(followersKeyPrefix, userID) }
func FollowingKey(userID uint) string { return key(followingKeyPrefix, userID) }
func PostsKey(userID uint) string     { return key(postsKeyPrefix, userID) }

func key(prefix string, userID uint) string {
	return prefix + strconv.FormatUint(uint64(userID), 10)
}

func genKey(key string) string { return key + genSuffix }

// setIfGen writes KEYS[1] only while KEYS[2] still holds ARGV[2].
var setIfGen = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[2] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// RedisCountCache implements CountCache backed by Redis.
type RedisCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCountCache wraps a connected client. Entries expire after ttl.
func NewRedisCountCache(client *redis.Client, ttl time.Duration) *RedisCountCache {
	return &RedisCountCache{client: client, ttl: ttl}
}

func (c *RedisCountCache) Get(ctx context.Context, key string) (Lookup, error) {
	vals, err := c.client.MGet(ctx, key, genKey(key)).Result()
	if err != nil {
		return Lookup{}, fmt.Errorf("redis mget %s: %w", key, err)
	}

	var res Lookup
	if s, ok := vals[1].(string); ok {
		if res.Gen, err = strconv.ParseInt(s, 10, 64); err != nil {
			return Lookup{}, fmt.Errorf("parse generation %s: %w", key, err)
		}
	}
	if s, ok := vals[0].(string); ok {
		if res.Count, err = strconv.ParseInt(s, 10, 64); err != nil {
			return Lookup{}, fmt.Errorf("parse cached count %s: %w", key, err)
		}
		res.Found = true
	}
	return res, nil
}

func (c *RedisCountCache) Set(ctx context.Context, key string, count, gen int64) error {
	err := setIfGen.Run(ctx, c.client, []string{key, genKey(key)}, count, gen, c.ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops the cached counts and bumps their generations.
func (c *RedisCountCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, genKey(k))
			pipe.Expire(ctx, genKey(k), genTTL)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}

// NopCountCache never hits; every count goes to the database.
type NopCountCache struct{}

func (NopCountCache) Get(context.Context, string) (Lookup, error)     { return Lookup{}, nil }
func (NopCountCache) Set(context.Context, string, int64, int64) error { return nil }
func (NopCountCache) Invalidate(context.Context, ...string) error     { return nil }

var (
	_ CountCache = (*RedisCountCache)(nil)
	_ CountCache = NopCountCache{}
)
