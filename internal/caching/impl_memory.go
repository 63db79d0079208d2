package caching

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// MemoryCache is an in-process Cache. Plain values live in an LRU so
// that the cache stays bounded; lists and sets are held in maps under a
// mutex, which keeps every per-key mutation atomic the same way the
// Redis primitives are. Suitable for single-node deployments and for
// tests.
type MemoryCache struct {
	values *lru.Cache

	mu    sync.Mutex
	lists map[string][]int64
	sets  map[string]map[int64]struct{}
}

func NewMemoryCache(maxEntries int) (*MemoryCache, error) {
	values, err := lru.New(maxEntries)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{
		values: values,
		lists:  make(map[string][]int64),
		sets:   make(map[string]map[int64]struct{}),
	}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.values.Get(key)
	if !ok {
		cacheMisses.WithLabelValues("memory").Inc()
		return nil, false, nil
	}
	cacheHits.WithLabelValues("memory").Inc()
	return v.([]byte), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.values.Add(key, value)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		c.values.Remove(key)
		delete(c.lists, key)
		delete(c.sets, key)
	}
	return nil
}

func (c *MemoryCache) MultiGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	found := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if v, ok, _ := c.Get(ctx, key); ok {
			found[key] = v
		}
	}
	return found, nil
}

func (c *MemoryCache) GetList(_ context.Context, key string) ([]int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, ok := c.lists[key]
	if !ok {
		cacheMisses.WithLabelValues("memory").Inc()
		return nil, false, nil
	}
	cacheHits.WithLabelValues("memory").Inc()
	out := make([]int64, len(ids))
	copy(out, ids)
	return out, true, nil
}

func (c *MemoryCache) SetList(_ context.Context, key string, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(ids))
	copy(out, ids)
	c.lists[key] = out
	return nil
}

func (c *MemoryCache) AddToTopOfList(_ context.Context, key string, id int64, maximum int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing := c.lists[key]
	ids := make([]int64, 0, len(existing)+1)
	ids = append(ids, id)
	for _, other := range existing {
		if other != id {
			ids = append(ids, other)
		}
	}
	if maximum > 0 && len(ids) > maximum {
		ids = ids[:maximum]
	}
	c.lists[key] = ids
	return nil
}

func (c *MemoryCache) RemoveFromList(_ context.Context, key string, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.lists[key]
	if !ok {
		// No list, nothing to remove. The list is not created empty.
		return nil
	}
	ids := existing[:0]
	for _, other := range existing {
		if other != id {
			ids = append(ids, other)
		}
	}
	c.lists[key] = ids
	return nil
}

func (c *MemoryCache) AddToSet(_ context.Context, key string, member int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.sets[key]
	if !ok {
		set = make(map[int64]struct{})
		c.sets[key] = set
	}
	set[member] = struct{}{}
	return nil
}

func (c *MemoryCache) RemoveFromSet(_ context.Context, key string, member int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.sets[key]; ok {
		delete(set, member)
	}
	return nil
}

func (c *MemoryCache) GetSet(_ context.Context, key string) ([]int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.sets[key]
	if !ok {
		return nil, false, nil
	}
	members := make([]int64, 0, len(set))
	for member := range set {
		members = append(members, member)
	}
	return members, true, nil
}
