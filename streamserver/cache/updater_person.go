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

// PersonUpdater reacts to person change events. Updaters never
// recompute values inline: they only invalidate, and the next read
// through a loader repopulates the entry.
type PersonUpdater struct {
	Cache caching.Cache
}

// OnCreated is a deliberate no-op: new people are cached on first read.
func (u *PersonUpdater) OnCreated(ctx context.Context, personID int64) error {
	return nil
}

// OnUpdated drops the by-id entry and, unlike the group and org short
// names, the person lookup entries: account ids can be remapped, so
// the lookups are not immutable.
func (u *PersonUpdater) OnUpdated(ctx context.Context, personID int64, accountID, openSocialID string) error {
	keys := []string{caching.PersonByID.Key(personID)}
	if accountID != "" {
		keys = append(keys, caching.PersonByAccountID.KeyFor(accountID))
	}
	if openSocialID != "" {
		keys = append(keys, caching.PersonByOpenSocialID.KeyFor(openSocialID))
	}
	return u.Cache.Delete(ctx, keys...)
}

// OnDeleted drops everything keyed off the person: the view, both
// lookups and both sides of the follow mirror.
func (u *PersonUpdater) OnDeleted(ctx context.Context, personID int64, accountID, openSocialID string) error {
	return u.Cache.Delete(ctx,
		caching.PersonByID.Key(personID),
		caching.PersonByAccountID.KeyFor(accountID),
		caching.PersonByOpenSocialID.KeyFor(openSocialID),
		caching.FollowersByPerson.Key(personID),
		caching.FollowingByPerson.Key(personID),
	)
}
