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
	"sort"

	"github.com/orbitsocial/orbit/internal/caching"
	"github.com/orbitsocial/orbit/streamserver/types"
)

type organizationSource interface {
	GetAllOrganizations(ctx context.Context) ([]types.OrganizationModelView, error)
}

// OrganizationHierarchyCache maintains the per-org closures of the
// organization tree: direct children, recursive children, parent chain
// and the whole-tree DTO. There is no incremental splice logic; any
// structural change throws the whole lot away and the next read
// rebuilds from a single authoritative load.
type OrganizationHierarchyCache struct {
	cache caching.Cache
	db    organizationSource
}

func NewOrganizationHierarchyCache(cache caching.Cache, db organizationSource) *OrganizationHierarchyCache {
	return &OrganizationHierarchyCache{cache: cache, db: db}
}

// Load queries every organization and rewrites all hierarchy cache
// entries: direct/recursive child lists, parent chains and the tree
// DTO. Roots have a parent id of zero.
func (h *OrganizationHierarchyCache) Load(ctx context.Context) error {
	orgs, err := h.db.GetAllOrganizations(ctx)
	if err != nil {
		return err
	}
	children := make(map[int64][]int64, len(orgs))
	parent := make(map[int64]int64, len(orgs))
	shortName := make(map[int64]string, len(orgs))
	var roots []int64
	for _, org := range orgs {
		parent[org.ID] = org.ParentOrganizationID
		shortName[org.ID] = org.ShortName
		if org.ParentOrganizationID == 0 {
			roots = append(roots, org.ID)
		} else {
			children[org.ParentOrganizationID] = append(children[org.ParentOrganizationID], org.ID)
		}
	}
	for id := range children {
		sort.Slice(children[id], func(i, j int) bool { return children[id][i] < children[id][j] })
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	for _, org := range orgs {
		if err := h.cache.SetList(ctx, caching.OrgDirectChildren.Key(org.ID), children[org.ID]); err != nil {
			return err
		}
		if err := h.cache.SetList(ctx, caching.OrgRecursiveChildren.Key(org.ID), descendants(org.ID, children)); err != nil {
			return err
		}
		if err := h.cache.SetList(ctx, caching.OrgParents.Key(org.ID), ancestors(org.ID, parent)); err != nil {
			return err
		}
	}
	tree := &types.OrgTreeNode{Children: buildTree(roots, children, shortName)}
	return caching.SetJSON(ctx, h.cache, string(caching.OrgTree), tree)
}

// GetDirectChildren returns the immediate child org ids.
func (h *OrganizationHierarchyCache) GetDirectChildren(ctx context.Context, orgID int64) ([]int64, error) {
	return h.getList(ctx, caching.OrgDirectChildren.Key(orgID))
}

// GetRecursiveChildren returns every descendant org id.
func (h *OrganizationHierarchyCache) GetRecursiveChildren(ctx context.Context, orgID int64) ([]int64, error) {
	return h.getList(ctx, caching.OrgRecursiveChildren.Key(orgID))
}

// GetSelfAndRecursiveChildren returns the org itself plus every
// descendant.
func (h *OrganizationHierarchyCache) GetSelfAndRecursiveChildren(ctx context.Context, orgID int64) ([]int64, error) {
	ids, err := h.GetRecursiveChildren(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return append([]int64{orgID}, ids...), nil
}

// GetParents returns the ancestor chain, nearest parent first.
func (h *OrganizationHierarchyCache) GetParents(ctx context.Context, orgID int64) ([]int64, error) {
	return h.getList(ctx, caching.OrgParents.Key(orgID))
}

// GetSelfAndParents returns the org itself plus its ancestor chain.
func (h *OrganizationHierarchyCache) GetSelfAndParents(ctx context.Context, orgID int64) ([]int64, error) {
	ids, err := h.GetParents(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return append([]int64{orgID}, ids...), nil
}

// GetTree returns the whole-tree DTO, rebuilding it if absent.
func (h *OrganizationHierarchyCache) GetTree(ctx context.Context) (*types.OrgTreeNode, error) {
	tree, found, err := caching.GetJSON[types.OrgTreeNode](ctx, h.cache, string(caching.OrgTree))
	if err != nil {
		return nil, err
	}
	if found {
		return &tree, nil
	}
	if err := h.Load(ctx); err != nil {
		return nil, err
	}
	tree, _, err = caching.GetJSON[types.OrgTreeNode](ctx, h.cache, string(caching.OrgTree))
	if err != nil {
		return nil, err
	}
	return &tree, nil
}

// Invalidate drops every hierarchy entry touched by a structural
// change: the tree DTO, the direct-children lists of the old and new
// parent, and the closures along both parent chains plus the moved
// subtree. The next read runs Load again.
func (h *OrganizationHierarchyCache) Invalidate(ctx context.Context, orgID, oldParentID, newParentID int64) error {
	keys := []string{string(caching.OrgTree), caching.OrgParents.Key(orgID), caching.OrgRecursiveChildren.Key(orgID)}
	for _, parentID := range []int64{oldParentID, newParentID} {
		if parentID == 0 {
			continue
		}
		keys = append(keys,
			caching.OrgDirectChildren.Key(parentID),
			caching.OrgRecursiveChildren.Key(parentID),
		)
		// Ancestors of both parents hold the moved subtree in their
		// recursive closures.
		chain, err := h.GetParents(ctx, parentID)
		if err != nil {
			return err
		}
		for _, ancestorID := range chain {
			keys = append(keys, caching.OrgRecursiveChildren.Key(ancestorID))
		}
	}
	// The moved subtree's descendants all have stale parent chains.
	subtree, err := h.GetRecursiveChildren(ctx, orgID)
	if err != nil {
		return err
	}
	for _, childID := range subtree {
		keys = append(keys, caching.OrgParents.Key(childID))
	}
	return h.cache.Delete(ctx, keys...)
}

func (h *OrganizationHierarchyCache) getList(ctx context.Context, key string) ([]int64, error) {
	ids, found, err := h.cache.GetList(ctx, key)
	if err != nil {
		return nil, err
	}
	if found {
		return ids, nil
	}
	if err := h.Load(ctx); err != nil {
		return nil, err
	}
	ids, _, err = h.cache.GetList(ctx, key)
	return ids, err
}

func descendants(orgID int64, children map[int64][]int64) []int64 {
	var out []int64
	for _, childID := range children[orgID] {
		out = append(out, childID)
		out = append(out, descendants(childID, children)...)
	}
	return out
}

func ancestors(orgID int64, parent map[int64]int64) []int64 {
	var out []int64
	for id := parent[orgID]; id != 0; id = parent[id] {
		out = append(out, id)
	}
	return out
}

func buildTree(ids []int64, children map[int64][]int64, shortName map[int64]string) []*types.OrgTreeNode {
	if len(ids) == 0 {
		return nil
	}
	nodes := make([]*types.OrgTreeNode, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, &types.OrgTreeNode{
			OrganizationID: id,
			ShortName:      shortName[id],
			Children:       buildTree(children[id], children, shortName),
		})
	}
	return nodes
}
