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
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/orbitsocial/orbit/internal/caching"
	"github.com/orbitsocial/orbit/streamserver/storage"
	"github.com/orbitsocial/orbit/streamserver/types"
)

// GroupLoader bulk-populates the group side of the cache: by-id model
// views, the immutable short-name lookup, coordinator lists and group
// follower lists.
type GroupLoader struct {
	DB    storage.Database
	Cache caching.Cache
}

func (l *GroupLoader) Load(ctx context.Context) error {
	groups, err := l.DB.GetAllGroups(ctx)
	if err != nil {
		return fmt.Errorf("querying groups: %w", err)
	}
	for i := range groups {
		g := &groups[i]
		if err := caching.SetJSON(ctx, l.Cache, caching.GroupByID.Key(g.ID), g); err != nil {
			return err
		}
		if err := caching.SetJSON(ctx, l.Cache, caching.GroupByShortName.KeyFor(g.ShortName), g.ID); err != nil {
			return err
		}
	}

	coordinators, err := l.DB.GetAllCoordinatorPairs(ctx)
	if err != nil {
		return fmt.Errorf("querying coordinators: %w", err)
	}
	byGroup := make(map[int64][]int64)
	for _, pair := range coordinators {
		personID, groupID := pair[0], pair[1]
		byGroup[groupID] = append(byGroup[groupID], personID)
	}

	followerPairs, err := l.DB.GetAllGroupFollowerPairs(ctx)
	if err != nil {
		return fmt.Errorf("querying group followers: %w", err)
	}
	followers := make(map[int64][]int64)
	followed := make(map[int64][]int64)
	for _, pair := range followerPairs {
		personID, groupID := pair[0], pair[1]
		followers[groupID] = append(followers[groupID], personID)
		followed[personID] = append(followed[personID], groupID)
	}

	for _, g := range groups {
		if err := l.Cache.SetList(ctx, caching.CoordinatorsByGroup.Key(g.ID), byGroup[g.ID]); err != nil {
			return err
		}
		if err := l.Cache.SetList(ctx, caching.FollowersByGroup.Key(g.ID), followers[g.ID]); err != nil {
			return err
		}
	}
	for personID, groupIDs := range followed {
		if err := l.Cache.SetList(ctx, caching.GroupsFollowedByPerson.Key(personID), groupIDs); err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"groups":       len(groups),
		"coordinators": len(coordinators),
		"follow_edges": len(followerPairs),
	}).Info("Loaded groups into cache")
	return nil
}

// GetByID reads a group view through the cache.
func (l *GroupLoader) GetByID(ctx context.Context, groupID int64) (*types.DomainGroupModelView, error) {
	view, err := caching.GetOrCompute(ctx, l.Cache, caching.GroupByID.Key(groupID), func(ctx context.Context) (types.DomainGroupModelView, error) {
		groups, err := l.DB.GetGroupsByIDs(ctx, []int64{groupID})
		if err != nil {
			return types.DomainGroupModelView{}, err
		}
		if len(groups) == 0 {
			return types.DomainGroupModelView{}, fmt.Errorf("no such group %d", groupID)
		}
		return groups[0], nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// GetIDByShortName resolves a short name to a group id. Short names
// are immutable so the entry is never invalidated by updates.
func (l *GroupLoader) GetIDByShortName(ctx context.Context, shortName string) (int64, error) {
	id, found, err := caching.GetJSON[int64](ctx, l.Cache, caching.GroupByShortName.KeyFor(shortName))
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	groups, err := l.DB.GetAllGroups(ctx)
	if err != nil {
		return 0, err
	}
	for i := range groups {
		if groups[i].ShortName == shortName {
			if err := caching.SetJSON(ctx, l.Cache, caching.GroupByShortName.KeyFor(shortName), groups[i].ID); err != nil {
				return 0, err
			}
			return groups[i].ID, nil
		}
	}
	return 0, fmt.Errorf("no group with short name %q", shortName)
}

// GetCoordinators returns the coordinator person ids of a group.
func (l *GroupLoader) GetCoordinators(ctx context.Context, groupID int64) ([]int64, error) {
	return caching.GetListOrCompute(ctx, l.Cache, caching.CoordinatorsByGroup.Key(groupID), func(ctx context.Context) ([]int64, error) {
		return l.DB.GetCoordinatorIDsByGroup(ctx, groupID)
	})
}

// GetByIDs is the bulk read path, cache-first with database fallback.
func (l *GroupLoader) GetByIDs(ctx context.Context, ids []int64) ([]types.DomainGroupModelView, error) {
	mapper := NewBulkViewMapper[types.DomainGroupModelView](
		l.Cache, caching.GroupByID,
		func(g types.DomainGroupModelView) int64 { return g.ID },
		l.DB.GetGroupsByIDs,
	)
	return mapper.Get(ctx, ids)
}
