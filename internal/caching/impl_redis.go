package caching

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache against a Redis deployment. Values are
// plain strings, id lists are Redis lists and id sets are Redis sets,
// so the per-key mutation primitives (LPUSH, LREM, SADD…) stay atomic
// on the server side.
type RedisCache struct {
	client redis.UniversalClient
}

func NewRedisCache(addresses []string, password string) *RedisCache {
	return &RedisCache{
		client: redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    addresses,
			Password: password,
		}),
	}
}

// keyNotFound detects whether the error signifies key not found.
func (c *RedisCache) keyNotFound(err error) bool {
	return err == redis.Nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if c.keyNotFound(err) {
			cacheMisses.WithLabelValues("redis").Inc()
			return nil, false, nil
		}
		return nil, false, err
	}
	cacheHits.WithLabelValues("redis").Inc()
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, 0).Err()
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) MultiGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	found := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return found, nil
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if v == nil {
			cacheMisses.WithLabelValues("redis").Inc()
			continue
		}
		cacheHits.WithLabelValues("redis").Inc()
		// MGET returns strings for keys set with SET.
		if s, ok := v.(string); ok {
			found[keys[i]] = []byte(s)
		}
	}
	return found, nil
}

func (c *RedisCache) GetList(ctx context.Context, key string) ([]int64, bool, error) {
	values, err := c.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if c.keyNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	// LRANGE returns an empty slice rather than a nil error for a
	// missing key, so check for existence explicitly.
	if len(values) == 0 {
		n, err := c.client.Exists(ctx, key).Result()
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			cacheMisses.WithLabelValues("redis").Inc()
			return nil, false, nil
		}
	}
	cacheHits.WithLabelValues("redis").Inc()
	ids, err := parseIDs(values)
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

func (c *RedisCache) SetList(ctx context.Context, key string, ids []int64) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(ids) > 0 {
		pipe.RPush(ctx, key, formatIDs(ids)...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisCache) AddToTopOfList(ctx context.Context, key string, id int64, maximum int) error {
	pipe := c.client.TxPipeline()
	pipe.LRem(ctx, key, 0, id)
	pipe.LPush(ctx, key, id)
	if maximum > 0 {
		pipe.LTrim(ctx, key, 0, int64(maximum)-1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisCache) RemoveFromList(ctx context.Context, key string, id int64) error {
	return c.client.LRem(ctx, key, 0, id).Err()
}

func (c *RedisCache) AddToSet(ctx context.Context, key string, member int64) error {
	return c.client.SAdd(ctx, key, member).Err()
}

func (c *RedisCache) RemoveFromSet(ctx context.Context, key string, member int64) error {
	return c.client.SRem(ctx, key, member).Err()
}

func (c *RedisCache) GetSet(ctx context.Context, key string) ([]int64, bool, error) {
	values, err := c.client.SMembers(ctx, key).Result()
	if err != nil {
		if c.keyNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(values) == 0 {
		n, err := c.client.Exists(ctx, key).Result()
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			return nil, false, nil
		}
	}
	ids, err := parseIDs(values)
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatIDs(ids []int64) []interface{} {
	out := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}
