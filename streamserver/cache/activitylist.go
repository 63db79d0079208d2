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

// ActivityListMapper maintains the bounded, newest-first activity id
// lists that back feeds. An activity appears at most once per list and
// lists never grow beyond the configured maximum. Absent lists are
// never created by removals, only by explicit loads or inserts.
type ActivityListMapper struct {
	cache   caching.Cache
	maximum int
}

func NewActivityListMapper(cache caching.Cache, maximum int) *ActivityListMapper {
	return &ActivityListMapper{cache: cache, maximum: maximum}
}

// AddToCompositeStream inserts an activity id at the head of a
// composite stream feed, trimming from the tail past the maximum.
func (m *ActivityListMapper) AddToCompositeStream(ctx context.Context, streamID, activityID int64) error {
	return m.cache.AddToTopOfList(ctx, caching.ActivitiesByCompositeStream.Key(streamID), activityID, m.maximum)
}

// AddToEntityStream inserts an activity id at the head of an entity
// (person/group/org) stream feed.
func (m *ActivityListMapper) AddToEntityStream(ctx context.Context, streamScopeID, activityID int64) error {
	return m.cache.AddToTopOfList(ctx, caching.ActivitiesByEntityStream.Key(streamScopeID), activityID, m.maximum)
}

// AddToFollowingList inserts an activity id at the head of a person's
// "following" feed.
func (m *ActivityListMapper) AddToFollowingList(ctx context.Context, personID, activityID int64) error {
	return m.cache.AddToTopOfList(ctx, caching.ActivitiesByFollowing.Key(personID), activityID, m.maximum)
}

// RemoveFromEntityStream drops activity ids from an entity stream
// feed. Ids not present, or a feed not yet in cache, are no-ops.
func (m *ActivityListMapper) RemoveFromEntityStream(ctx context.Context, streamScopeID int64, activityIDs []int64) error {
	return m.removeAll(ctx, caching.ActivitiesByEntityStream.Key(streamScopeID), activityIDs)
}

// RemoveFromCompositeStreams drops activity ids from every listed
// composite stream feed.
func (m *ActivityListMapper) RemoveFromCompositeStreams(ctx context.Context, streamIDs []int64, activityIDs []int64) error {
	for _, streamID := range streamIDs {
		if err := m.removeAll(ctx, caching.ActivitiesByCompositeStream.Key(streamID), activityIDs); err != nil {
			return err
		}
	}
	return nil
}

// RemoveFromFollowingLists drops activity ids from the "following"
// feeds of every listed person, typically the deleted activity's
// author's followers.
func (m *ActivityListMapper) RemoveFromFollowingLists(ctx context.Context, personIDs []int64, activityIDs []int64) error {
	for _, personID := range personIDs {
		if err := m.removeAll(ctx, caching.ActivitiesByFollowing.Key(personID), activityIDs); err != nil {
			return err
		}
	}
	return nil
}

func (m *ActivityListMapper) removeAll(ctx context.Context, key string, activityIDs []int64) error {
	for _, id := range activityIDs {
		if err := m.cache.RemoveFromList(ctx, key, id); err != nil {
			return err
		}
	}
	return nil
}
