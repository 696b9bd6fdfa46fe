package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "society:"

// RedisListCache is a ListCache on top of go-redis.
type RedisListCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisListCache wraps an existing client.
func NewRedisListCache(client *redis.Client, ttl time.Duration) *RedisListCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisListCache{client: client, prefix: defaultPrefix, ttl: ttl}
}

func (c *RedisListCache) genKey(collection string) string {
	return c.prefix + "gen:" + collection
}

func (c *RedisListCache) generation(ctx context.Context, collection string) (Generation, error) {
	gen, err := c.client.Get(ctx, c.genKey(collection)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return Generation(gen), err
}

func (c *RedisListCache) dataKey(collection string, gen Generation, key string) string {
	return fmt.Sprintf("%s%s:%d:%s", c.prefix, collection, gen, key)
}

// Get returns the payload stored under the collection's current generation.
func (c *RedisListCache) Get(ctx context.Context, collection, key string) ([]byte, Generation, error) {
	gen, err := c.generation(ctx, collection)
	if err != nil {
		return nil, 0, err
	}
	val, err := c.client.Get(ctx, c.dataKey(collection, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, ErrMiss
	}
	return val, gen, err
}

// Set stores value under gen. If the collection has moved on since gen was
// read, the entry is unreachable and expires with its TTL.
func (c *RedisListCache) Set(ctx context.Context, collection string, gen Generation, key string, value []byte) error {
	return c.client.Set(ctx, c.dataKey(collection, gen, key), value, c.ttl).Err()
}

// Invalidate bumps the generation. Old entries age out through their TTL.
func (c *RedisListCache) Invalidate(ctx context.Context, collection string) error {
	return c.client.Incr(ctx, c.genKey(collection)).Err()
}
