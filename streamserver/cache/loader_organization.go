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

// OrganizationLoader bulk-populates organization views, the immutable
// short-name lookup and, through the hierarchy cache, the tree
// closures.
type OrganizationLoader struct {
	DB        storage.Database
	Cache     caching.Cache
	Hierarchy *OrganizationHierarchyCache
}

func (l *OrganizationLoader) Load(ctx context.Context) error {
	orgs, err := l.DB.GetAllOrganizations(ctx)
	if err != nil {
		return fmt.Errorf("querying organizations: %w", err)
	}
	for i := range orgs {
		o := &orgs[i]
		if err := caching.SetJSON(ctx, l.Cache, caching.OrganizationByID.Key(o.ID), o); err != nil {
			return err
		}
		if err := caching.SetJSON(ctx, l.Cache, caching.OrganizationByShortName.KeyFor(o.ShortName), o.ID); err != nil {
			return err
		}
	}
	if err := l.Hierarchy.Load(ctx); err != nil {
		return err
	}
	logrus.WithField("organizations", len(orgs)).Info("Loaded organizations into cache")
	return nil
}

// GetByID reads an organization view through the cache.
func (l *OrganizationLoader) GetByID(ctx context.Context, orgID int64) (*types.OrganizationModelView, error) {
	view, err := caching.GetOrCompute(ctx, l.Cache, caching.OrganizationByID.Key(orgID), func(ctx context.Context) (types.OrganizationModelView, error) {
		orgs, err := l.DB.GetOrganizationsByIDs(ctx, []int64{orgID})
		if err != nil {
			return types.OrganizationModelView{}, err
		}
		if len(orgs) == 0 {
			return types.OrganizationModelView{}, fmt.Errorf("no such organization %d", orgID)
		}
		return orgs[0], nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// GetIDByShortName resolves a short name to an organization id.
func (l *OrganizationLoader) GetIDByShortName(ctx context.Context, shortName string) (int64, error) {
	id, found, err := caching.GetJSON[int64](ctx, l.Cache, caching.OrganizationByShortName.KeyFor(shortName))
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	orgs, err := l.DB.GetAllOrganizations(ctx)
	if err != nil {
		return 0, err
	}
	for i := range orgs {
		if orgs[i].ShortName == shortName {
			if err := caching.SetJSON(ctx, l.Cache, caching.OrganizationByShortName.KeyFor(shortName), orgs[i].ID); err != nil {
				return 0, err
			}
			return orgs[i].ID, nil
		}
	}
	return 0, fmt.Errorf("no organization with short name %q", shortName)
}

// GetByIDs is the bulk read path, cache-first with database fallback.
func (l *OrganizationLoader) GetByIDs(ctx context.Context, ids []int64) ([]types.OrganizationModelView, error) {
	mapper := NewBulkViewMapper[types.OrganizationModelView](
		l.Cache, caching.OrganizationByID,
		func(o types.OrganizationModelView) int64 { return o.ID },
		l.DB.GetOrganizationsByIDs,
	)
	return mapper.Get(ctx, ids)
}
