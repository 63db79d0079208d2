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

// OrganizationUpdater reacts to organization change events. Like group
// short names, org short names are immutable and their lookup entries
// survive updates. Structural changes hand off to the hierarchy cache.
type OrganizationUpdater struct {
	Cache     caching.Cache
	Hierarchy *OrganizationHierarchyCache
}

// OnCreated invalidates only the hierarchy: a new org changes the tree
// shape even though its own view is populated lazily.
func (u *OrganizationUpdater) OnCreated(ctx context.Context, orgID, parentID int64) error {
	return u.Hierarchy.Invalidate(ctx, orgID, 0, parentID)
}

// OnUpdated drops the by-id entry only.
func (u *OrganizationUpdater) OnUpdated(ctx context.Context, orgID int64) error {
	return u.Cache.Delete(ctx, caching.OrganizationByID.Key(orgID))
}

// OnReparented drops the by-id entry and every hierarchy closure the
// move invalidates. The next hierarchy read runs a full tree reload.
func (u *OrganizationUpdater) OnReparented(ctx context.Context, orgID, oldParentID, newParentID int64) error {
	if err := u.Cache.Delete(ctx, caching.OrganizationByID.Key(orgID)); err != nil {
		return err
	}
	return u.Hierarchy.Invalidate(ctx, orgID, oldParentID, newParentID)
}

// OnDeleted drops the view, the short-name lookup and the hierarchy
// entries around the removed node.
func (u *OrganizationUpdater) OnDeleted(ctx context.Context, orgID, parentID int64, shortName string) error {
	if err := u.Cache.Delete(ctx,
		caching.OrganizationByID.Key(orgID),
		caching.OrganizationByShortName.KeyFor(shortName),
	); err != nil {
		return err
	}
	return u.Hierarchy.Invalidate(ctx, orgID, parentID, 0)
}
