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

// GroupUpdater reacts to group change events. Short names are
// immutable, so GroupByShortName entries are never removed on update;
// only the by-id entry is invalidated.
type GroupUpdater struct {
	Cache caching.Cache
}

// OnCreated is a no-op: groups are cached on first read.
func (u *GroupUpdater) OnCreated(ctx context.Context, groupID int64) error {
	return nil
}

// OnUpdated drops the by-id entry only.
func (u *GroupUpdater) OnUpdated(ctx context.Context, groupID int64) error {
	return u.Cache.Delete(ctx, caching.GroupByID.Key(groupID))
}

// OnDeleted drops the view, the short-name lookup, the coordinator
// list and the group's follower list.
func (u *GroupUpdater) OnDeleted(ctx context.Context, groupID int64, shortName string) error {
	return u.Cache.Delete(ctx,
		caching.GroupByID.Key(groupID),
		caching.GroupByShortName.KeyFor(shortName),
		caching.CoordinatorsByGroup.Key(groupID),
		caching.FollowersByGroup.Key(groupID),
	)
}

// OnCoordinatorsChanged drops the coordinator list so the next read
// rebuilds it.
func (u *GroupUpdater) OnCoordinatorsChanged(ctx context.Context, groupID int64) error {
	return u.Cache.Delete(ctx, caching.CoordinatorsByGroup.Key(groupID))
}
