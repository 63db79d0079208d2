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

// personFollowSource is the slice of the database the person follower
// mapper needs to lazily rebuild an absent list.
type personFollowSource interface {
	GetPersonFollowerIDs(ctx context.Context, followedID int64) ([]int64, error)
	GetPersonFollowingIDs(ctx context.Context, followerID int64) ([]int64, error)
}

// PersonFollowerMapper keeps the two mirrored person-follow lists in
// step: FollowersByPerson for the followed side and FollowingByPerson
// for the follower side. The two writes are not atomic; a crash in
// between leaves a half-edge that the next full reload corrects.
type PersonFollowerMapper struct {
	cache caching.Cache
	db    personFollowSource
}

func NewPersonFollowerMapper(cache caching.Cache, db personFollowSource) *PersonFollowerMapper {
	return &PersonFollowerMapper{cache: cache, db: db}
}

// Add records that followerID now follows followedID. Adding an
// existing follower is a no-op.
func (m *PersonFollowerMapper) Add(ctx context.Context, followerID, followedID int64) error {
	followers, err := m.followers(ctx, followedID)
	if err != nil {
		return err
	}
	if !contains(followers, followerID) {
		followers = append(followers, followerID)
		if err := m.cache.SetList(ctx, caching.FollowersByPerson.Key(followedID), followers); err != nil {
			return err
		}
	}
	following, err := m.following(ctx, followerID)
	if err != nil {
		return err
	}
	if !contains(following, followedID) {
		following = append(following, followedID)
		if err := m.cache.SetList(ctx, caching.FollowingByPerson.Key(followerID), following); err != nil {
			return err
		}
	}
	return nil
}

// Remove undoes Add. Removing a non-follower is a no-op.
func (m *PersonFollowerMapper) Remove(ctx context.Context, followerID, followedID int64) error {
	if err := m.cache.RemoveFromList(ctx, caching.FollowersByPerson.Key(followedID), followerID); err != nil {
		return err
	}
	return m.cache.RemoveFromList(ctx, caching.FollowingByPerson.Key(followerID), followedID)
}

// Followers returns the follower ids of a person, reading through to
// the database when the list is not cached.
func (m *PersonFollowerMapper) Followers(ctx context.Context, followedID int64) ([]int64, error) {
	return m.followers(ctx, followedID)
}

// Following returns the ids a person follows, reading through to the
// database when the list is not cached.
func (m *PersonFollowerMapper) Following(ctx context.Context, followerID int64) ([]int64, error) {
	return m.following(ctx, followerID)
}

func (m *PersonFollowerMapper) followers(ctx context.Context, followedID int64) ([]int64, error) {
	return caching.GetListOrCompute(ctx, m.cache, caching.FollowersByPerson.Key(followedID), func(ctx context.Context) ([]int64, error) {
		return m.db.GetPersonFollowerIDs(ctx, followedID)
	})
}

func (m *PersonFollowerMapper) following(ctx context.Context, followerID int64) ([]int64, error) {
	return caching.GetListOrCompute(ctx, m.cache, caching.FollowingByPerson.Key(followerID), func(ctx context.Context) ([]int64, error) {
		return m.db.GetPersonFollowingIDs(ctx, followerID)
	})
}

func contains(ids []int64, id int64) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
