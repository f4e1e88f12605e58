package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL bounds how long a run's entries survive in Redis.
const DefaultRedisTTL = 6 * time.Hour

// RedisCache stores entries as Redis hashes with fields data, etag and
// stored_at. Every key is prefixed with the run namespace and expires after
// the TTL, so entries never outlive the run that produced them by much.
type RedisCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisCache connects to the Redis server at rawURL
// (redis://[user:pass@]host:port/db) and verifies it with a PING.
func NewRedisCache(ctx context.Context, rawURL, namespace string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return newRedisCache(client, namespace, ttl), nil
}

func newRedisCache(client *redis.Client, namespace string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisCache{client: client, namespace: namespace, ttl: ttl}
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	fields, err := c.client.HGetAll(ctx, c.key(key)).Result()
	if err != nil {
		return Entry{}, false, err
	}
	data, ok := fields["data"]
	if !ok {
		return Entry{}, false, nil
	}
	e := Entry{Data: []byte(data), ETag: fields["etag"]}
	if ts, err := strconv.ParseInt(fields["stored_at"], 10, 64); err == nil {
		e.StoredAt = time.UnixMilli(ts)
	}
	return e, true, nil
}

// Set stores a value and refreshes the key's TTL.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, etag string) error {
	k := c.key(key)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k,
			"data", data,
			"etag", etag,
			"stored_at", strconv.FormatInt(time.Now().UnixMilli(), 10),
		)
		pipe.Expire(ctx, k, c.ttl)
		return nil
	})
	return err
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Close closes the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(k string) string {
	return c.namespace + k
}

var _ Cache = (*RedisCache)(nil)
