package caching

import (
	"context"
	"encoding/json"
)

// BulkResponse is the result of a partial cache read: the values that
// were found, keyed by the original (untransformed) suffix, plus the
// suffixes that must still be resolved against the source of truth.
type BulkResponse[K comparable, V any] struct {
	Found     map[K]V
	Unhandled []K
}

// HasUnhandled reports whether any requested suffix missed the cache.
func (r *BulkResponse[K, V]) HasUnhandled() bool {
	return len(r.Unhandled) > 0
}

// MultiGetPartial transforms each suffix to a full cache key via toKey,
// performs a single bulk MultiGet, and splits the input into found
// values and unhandled suffixes. The fallback mapper that resolves the
// unhandled remainder never sees cache key formatting.
//
// An empty input yields an empty, non-unhandled response.
func MultiGetPartial[K comparable, V any](
	ctx context.Context, c Cache, suffixes []K, toKey func(K) string,
) (*BulkResponse[K, V], error) {
	response := &BulkResponse[K, V]{
		Found: make(map[K]V, len(suffixes)),
	}
	if len(suffixes) == 0 {
		return response, nil
	}
	keys := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		keys = append(keys, toKey(suffix))
	}
	values, err := c.MultiGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	for i, suffix := range suffixes {
		data, ok := values[keys[i]]
		if !ok {
			response.Unhandled = append(response.Unhandled, suffix)
			continue
		}
		var value V
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, err
		}
		response.Found[suffix] = value
	}
	return response, nil
}
