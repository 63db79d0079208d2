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

package caching

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheValues(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(8)
	require.NoError(t, err)

	_, found, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "a", []byte("one")))
	v, found, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("one"), v)

	require.NoError(t, cache.Delete(ctx, "a"))
	_, found, err = cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCacheAddToTopOfList(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(8)
	require.NoError(t, err)

	// The list never grows past the maximum and the most recent insert
	// is always first.
	for id := int64(1); id <= 5; id++ {
		require.NoError(t, cache.AddToTopOfList(ctx, "feed", id, 3))
	}
	ids, found, err := cache.GetList(ctx, "feed")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int64{5, 4, 3}, ids)

	// Re-adding an existing id moves it to the head instead of
	// duplicating it.
	require.NoError(t, cache.AddToTopOfList(ctx, "feed", 4, 3))
	ids, _, err = cache.GetList(ctx, "feed")
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 3}, ids)
}

func TestMemoryCacheRemoveFromAbsentListIsNoOp(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(8)
	require.NoError(t, err)

	require.NoError(t, cache.RemoveFromList(ctx, "nothing", 42))
	// The removal must not create the list.
	_, found, err := cache.GetList(ctx, "nothing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCacheRemoveFromList(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(8)
	require.NoError(t, err)

	require.NoError(t, cache.SetList(ctx, "feed", []int64{3, 2, 1}))
	require.NoError(t, cache.RemoveFromList(ctx, "feed", 2))
	ids, found, err := cache.GetList(ctx, "feed")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int64{3, 1}, ids)

	// Removing an id that is not present changes nothing.
	require.NoError(t, cache.RemoveFromList(ctx, "feed", 99))
	ids, _, _ = cache.GetList(ctx, "feed")
	assert.Equal(t, []int64{3, 1}, ids)
}

func TestMemoryCacheSets(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(8)
	require.NoError(t, err)

	require.NoError(t, cache.AddToSet(ctx, "members", 1))
	require.NoError(t, cache.AddToSet(ctx, "members", 2))
	require.NoError(t, cache.AddToSet(ctx, "members", 2))

	members, found, err := cache.GetSet(ctx, "members")
	require.NoError(t, err)
	require.True(t, found)
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	assert.Equal(t, []int64{1, 2}, members)

	require.NoError(t, cache.RemoveFromSet(ctx, "members", 1))
	members, _, _ = cache.GetSet(ctx, "members")
	assert.Equal(t, []int64{2}, members)
}

func TestMemoryCacheMultiGet(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(8)
	require.NoError(t, err)

	require.NoError(t, cache.Set(ctx, "a", []byte("1")))
	require.NoError(t, cache.Set(ctx, "b", []byte("2")))

	found, err := cache.MultiGet(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.NotContains(t, found, "c")
}
