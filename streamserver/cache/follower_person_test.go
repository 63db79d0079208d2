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

type fakePersonFollowSource struct {
	followers map[int64][]int64
	following map[int64][]int64
}

func (f *fakePersonFollowSource) GetPersonFollowerIDs(_ context.Context, followedID int64) ([]int64, error) {
	return f.followers[followedID], nil
}

func (f *fakePersonFollowSource) GetPersonFollowingIDs(_ context.Context, followerID int64) ([]int64, error) {
	return f.following[followerID], nil
}

func newPersonFollowerFixture(t *testing.T) (*PersonFollowerMapper, caching.Cache) {
	t.Helper()
	c, err := caching.NewMemoryCache(128)
	require.NoError(t, err)
	mapper := NewPersonFollowerMapper(c, &fakePersonFollowSource{
		followers: map[int64][]int64{},
		following: map[int64][]int64{},
	})
	return mapper, c
}

func TestPersonFollowerAddRemoveRoundTrip(t *testing.T) {
	ctx := context.Background()
	mapper, _ := newPersonFollowerFixture(t)

	followersBefore, err := mapper.Followers(ctx, 2)
	require.NoError(t, err)
	followingBefore, err := mapper.Following(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, mapper.Add(ctx, 1, 2))
	followers, err := mapper.Followers(ctx, 2)
	require.NoError(t, err)
	assert.Contains(t, followers, int64(1))
	following, err := mapper.Following(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, following, int64(2))

	// Remove restores the pre-add state of both mirrored lists.
	require.NoError(t, mapper.Remove(ctx, 1, 2))
	followers, err = mapper.Followers(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, len(followersBefore), len(followers))
	following, err = mapper.Following(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, len(followingBefore), len(following))
}

func TestPersonFollowerAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mapper, _ := newPersonFollowerFixture(t)

	require.NoError(t, mapper.Add(ctx, 1, 2))
	require.NoError(t, mapper.Add(ctx, 1, 2))

	followers, err := mapper.Followers(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, followers)
	following, err := mapper.Following(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, following)
}

func TestPersonFollowerRemoveNonFollowerIsNoOp(t *testing.T) {
	ctx := context.Background()
	mapper, _ := newPersonFollowerFixture(t)

	require.NoError(t, mapper.Add(ctx, 1, 2))
	require.NoError(t, mapper.Remove(ctx, 9, 2))

	followers, err := mapper.Followers(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, followers)
}

func TestPersonFollowerLazyLoadsFromSource(t *testing.T) {
	ctx := context.Background()
	c, err := caching.NewMemoryCache(128)
	require.NoError(t, err)
	mapper := NewPersonFollowerMapper(c, &fakePersonFollowSource{
		followers: map[int64][]int64{2: {7, 8}},
		following: map[int64][]int64{},
	})

	// Absent list is read through from the database and cached.
	followers, err := mapper.Followers(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, followers)

	cached, found, err := c.GetList(ctx, caching.FollowersByPerson.Key(2))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int64{7, 8}, cached)
}
