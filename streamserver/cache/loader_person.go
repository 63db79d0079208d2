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

// PersonLoader bulk-populates the person side of the cache: the by-id
// model views, the account-id and OpenSocial-id lookup entries, and
// the mirrored follower/following lists.
type PersonLoader struct {
	DB    storage.Database
	Cache caching.Cache
}

// Load writes every person view, both lookup indices and both sides of
// every follow edge into cache. Multiple loaders may overwrite the same
// keys; writes are idempotent so last-write-wins is fine.
func (l *PersonLoader) Load(ctx context.Context) error {
	people, err := l.DB.GetAllPeople(ctx)
	if err != nil {
		return fmt.Errorf("querying people: %w", err)
	}
	for i := range people {
		p := &people[i]
		if err := caching.SetJSON(ctx, l.Cache, caching.PersonByID.Key(p.ID), p); err != nil {
			return err
		}
		if err := caching.SetJSON(ctx, l.Cache, caching.PersonByAccountID.KeyFor(p.AccountID), p.ID); err != nil {
			return err
		}
		if err := caching.SetJSON(ctx, l.Cache, caching.PersonByOpenSocialID.KeyFor(p.OpenSocialID), p.ID); err != nil {
			return err
		}
	}

	pairs, err := l.DB.GetAllPersonFollowerPairs(ctx)
	if err != nil {
		return fmt.Errorf("querying person followers: %w", err)
	}
	followers := make(map[int64][]int64)
	following := make(map[int64][]int64)
	for _, pair := range pairs {
		followerID, followedID := pair[0], pair[1]
		followers[followedID] = append(followers[followedID], followerID)
		following[followerID] = append(following[followerID], followedID)
	}
	for _, p := range people {
		if err := l.Cache.SetList(ctx, caching.FollowersByPerson.Key(p.ID), followers[p.ID]); err != nil {
			return err
		}
		if err := l.Cache.SetList(ctx, caching.FollowingByPerson.Key(p.ID), following[p.ID]); err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"people":       len(people),
		"follow_edges": len(pairs),
	}).Info("Loaded people into cache")
	return nil
}

// GetByID reads a person view through the cache, falling back to the
// database and backfilling on a miss.
func (l *PersonLoader) GetByID(ctx context.Context, personID int64) (*types.PersonModelView, error) {
	view, err := caching.GetOrCompute(ctx, l.Cache, caching.PersonByID.Key(personID), func(ctx context.Context) (types.PersonModelView, error) {
		people, err := l.DB.GetPeopleByIDs(ctx, []int64{personID})
		if err != nil {
			return types.PersonModelView{}, err
		}
		if len(people) == 0 {
			return types.PersonModelView{}, fmt.Errorf("no such person %d", personID)
		}
		return people[0], nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// GetByIDs is the bulk read path, cache-first with database fallback.
func (l *PersonLoader) GetByIDs(ctx context.Context, ids []int64) ([]types.PersonModelView, error) {
	mapper := NewBulkViewMapper[types.PersonModelView](
		l.Cache, caching.PersonByID,
		func(p types.PersonModelView) int64 { return p.ID },
		l.DB.GetPeopleByIDs,
	)
	return mapper.Get(ctx, ids)
}
