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

type groupFollowSource interface {
	GetGroupFollowerIDs(ctx context.Context, groupID int64) ([]int64, error)
	GetFollowedGroupIDs(ctx context.Context, personID int64) ([]int64, error)
}

// GroupFollowerMapper mirrors PersonFollowerMapper for person-group
// edges: FollowersByGroup on the group side, GroupsFollowedByPerson on
// the person side.
type GroupFollowerMapper struct {
	cache caching.Cache
	db    groupFollowSource
}

func NewGroupFollowerMapper(cache caching.Cache, db groupFollowSource) *GroupFollowerMapper {
	return &GroupFollowerMapper{cache: cache, db: db}
}

// Add records that personID now follows groupID. Idempotent.
func (m *GroupFollowerMapper) Add(ctx context.Context, personID, groupID int64) error {
	followers, err := m.followers(ctx, groupID)
	if err != nil {
		return err
	}
	if !contains(followers, personID) {
		followers = append(followers, personID)
		if err := m.cache.SetList(ctx, caching.FollowersByGroup.Key(groupID), followers); err != nil {
			return err
		}
	}
	followed, err := m.followedGroups(ctx, personID)
	if err != nil {
		return err
	}
	if !contains(followed, groupID) {
		followed = append(followed, groupID)
		if err := m.cache.SetList(ctx, caching.GroupsFollowedByPerson.Key(personID), followed); err != nil {
			return err
		}
	}
	return nil
}

// Remove undoes Add. Removing a non-follower is a no-op.
func (m *GroupFollowerMapper) Remove(ctx context.Context, personID, groupID int64) error {
	if err := m.cache.RemoveFromList(ctx, caching.FollowersByGroup.Key(groupID), personID); err != nil {
		return err
	}
	return m.cache.RemoveFromList(ctx, caching.GroupsFollowedByPerson.Key(personID), groupID)
}

// Followers returns the person ids following a group.
func (m *GroupFollowerMapper) Followers(ctx context.Context, groupID int64) ([]int64, error) {
	return m.followers(ctx, groupID)
}

// FollowedGroups returns the group ids a person follows.
func (m *GroupFollowerMapper) FollowedGroups(ctx context.Context, personID int64) ([]int64, error) {
	return m.followedGroups(ctx, personID)
}

func (m *GroupFollowerMapper) followers(ctx context.Context, groupID int64) ([]int64, error) {
	return caching.GetListOrCompute(ctx, m.cache, caching.FollowersByGroup.Key(groupID), func(ctx context.Context) ([]int64, error) {
		return m.db.GetGroupFollowerIDs(ctx, groupID)
	})
}

func (m *GroupFollowerMapper) followedGroups(ctx context.Context, personID int64) ([]int64, error) {
	return caching.GetListOrCompute(ctx, m.cache, caching.GroupsFollowedByPerson.Key(personID), func(ctx context.Context) ([]int64, error) {
		return m.db.GetFollowedGroupIDs(ctx, personID)
	})
}
