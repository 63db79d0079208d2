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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitsocial/orbit/internal/caching"
)

func TestActivityListNewestFirstAndBounded(t *testing.T) {
	ctx := context.Background()
	c, err := caching.NewMemoryCache(128)
	require.NoError(t, err)
	mapper := NewActivityListMapper(c, 3)

	for _, id := range []int64{11, 12, 13, 14} {
		require.NoError(t, mapper.AddToCompositeStream(ctx, 1, id))
	}

	ids, found, err := c.GetList(ctx, caching.ActivitiesByCompositeStream.Key(1))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int64{14, 13, 12}, ids)
}

func TestActivityListInsertIsDeduplicated(t *testing.T) {
	ctx := context.Background()
	c, err := caching.NewMemoryCache(128)
	require.NoError(t, err)
	mapper := NewActivityListMapper(c, 10)

	require.NoError(t, mapper.AddToEntityStream(ctx, 2, 21))
	require.NoError(t, mapper.AddToEntityStream(ctx, 2, 22))
	require.NoError(t, mapper.AddToEntityStream(ctx, 2, 21))

	ids, found, err := c.GetList(ctx, caching.ActivitiesByEntityStream.Key(2))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int64{21, 22}, ids)
}

func TestActivityListRemovalNeverCreatesLists(t *testing.T) {
	ctx := context.Background()
	c, err := caching.NewMemoryCache(128)
	require.NoError(t, err)
	mapper := NewActivityListMapper(c, 10)

	require.NoError(t, mapper.RemoveFromCompositeStreams(ctx, []int64{3, 4}, []int64{31}))
	require.NoError(t, mapper.RemoveFromFollowingLists(ctx, []int64{5}, []int64{31}))

	for _, key := range []string{
		caching.ActivitiesByCompositeStream.Key(3),
		caching.ActivitiesByCompositeStream.Key(4),
		caching.ActivitiesByFollowing.Key(5),
	} {
		_, found, err := c.GetList(ctx, key)
		require.NoError(t, err)
		assert.False(t, found)
	}
}

func TestActivityListRemoveFromMultipleFeeds(t *testing.T) {
	ctx := context.Background()
	c, err := caching.NewMemoryCache(128)
	require.NoError(t, err)
	mapper := NewActivityListMapper(c, 10)

	for _, streamID := range []int64{6, 7} {
		require.NoError(t, mapper.AddToCompositeStream(ctx, streamID, 41))
		require.NoError(t, mapper.AddToCompositeStream(ctx, streamID, 42))
	}

	require.NoError(t, mapper.RemoveFromCompositeStreams(ctx, []int64{6, 7}, []int64{41}))

	for _, streamID := range []int64{6, 7} {
		ids, found, err := c.GetList(ctx, caching.ActivitiesByCompositeStream.Key(streamID))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []int64{42}, ids)
	}
}
