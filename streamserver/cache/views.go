// Copyright 2024 The Orbit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"

	"github.com/orbitsocial/orbit/internal/caching"
)

// BulkViewMapper is the chained cache-then-database read path for model
// views. The cache is consulted with one bulk MultiGet; whatever missed
// is fetched from the source of truth, written back and merged into the
// response. The source never sees cache key formatting.
type BulkViewMapper[T any] struct {
	cache  caching.Cache
	prefix caching.KeyPrefix
	idOf   func(T) int64
	fetch  func(ctx context.Context, ids []int64) ([]T, error)
}

func NewBulkViewMapper[T any](
	cache caching.Cache, prefix caching.KeyPrefix,
	idOf func(T) int64,
	fetch func(ctx context.Context, ids []int64) ([]T, error),
) *BulkViewMapper[T] {
	return &BulkViewMapper[T]{
		cache:  cache,
		prefix: prefix,
		idOf:   idOf,
		fetch:  fetch,
	}
}

// Get returns the views for the requested ids, in request order. Ids
// unknown to both the cache and the database are omitted.
func (m *BulkViewMapper[T]) Get(ctx context.Context, ids []int64) ([]T, error) {
	response, err := caching.MultiGetPartial[int64, T](ctx, m.cache, ids, m.prefix.Key)
	if err != nil {
		return nil, err
	}
	if response.HasUnhandled() {
		fetched, err := m.fetch(ctx, response.Unhandled)
		if err != nil {
			return nil, err
		}
		for _, view := range fetched {
			id := m.idOf(view)
			if err := caching.SetJSON(ctx, m.cache, m.prefix.Key(id), view); err != nil {
				return nil, err
			}
			response.Found[id] = view
		}
	}
	views := make([]T, 0, len(response.Found))
	for _, id := range ids {
		if view, ok := response.Found[id]; ok {
			views = append(views, view)
		}
	}
	return views, nil
}

// GetOne is Get for a single id.
func (m *BulkViewMapper[T]) GetOne(ctx context.Context, id int64) (view T, ok bool, err error) {
	views, err := m.Get(ctx, []int64{id})
	if err != nil || len(views) == 0 {
		return view, false, err
	}
	return views[0], true, nil
}
