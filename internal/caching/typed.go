package caching

import (
	"context"
	"encoding/json"
)

// Typed accessors over the byte-valued client. Model views are stored
// as JSON so that cache contents stay readable with standard tooling.

func GetJSON[T any](ctx context.Context, c Cache, key string) (value T, ok bool, err error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return value, false, err
	}
	if err = json.Unmarshal(data, &value); err != nil {
		return value, false, err
	}
	return value, true, nil
}

func SetJSON[T any](ctx context.Context, c Cache, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data)
}

// GetOrCompute reads the value at key, computing and writing it back on
// a miss. This is the read-through path that repopulates entries which
// the updaters invalidated.
func GetOrCompute[T any](ctx context.Context, c Cache, key string, compute func(ctx context.Context) (T, error)) (T, error) {
	value, ok, err := GetJSON[T](ctx, c, key)
	if err != nil {
		return value, err
	}
	if ok {
		return value, nil
	}
	value, err = compute(ctx)
	if err != nil {
		return value, err
	}
	return value, SetJSON(ctx, c, key, value)
}

// GetListOrCompute is GetOrCompute for id lists.
func GetListOrCompute(ctx context.Context, c Cache, key string, compute func(ctx context.Context) ([]int64, error)) ([]int64, error) {
	ids, ok, err := c.GetList(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		return ids, nil
	}
	ids, err = compute(ctx)
	if err != nil {
		return nil, err
	}
	return ids, c.SetList(ctx, key, ids)
}
