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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitsocial/orbit/internal/caching"
	"github.com/orbitsocial/orbit/streamserver/types"
)

type fakeOrganizationSource struct {
	orgs []types.OrganizationModelView
}

func (f *fakeOrganizationSource) GetAllOrganizations(_ context.Context) ([]types.OrganizationModelView, error) {
	return f.orgs, nil
}

func newHierarchyFixture(t *testing.T) (*OrganizationHierarchyCache, *fakeOrganizationSource, caching.Cache) {
	t.Helper()
	c, err := caching.NewMemoryCache(256)
	require.NoError(t, err)
	source := &fakeOrganizationSource{
		orgs: []types.OrganizationModelView{
			{ID: 5, ShortName: "root"},
			{ID: 6, ShortName: "east", ParentOrganizationID: 5},
			{ID: 7, ShortName: "west", ParentOrganizationID: 5},
		},
	}
	return NewOrganizationHierarchyCache(c, source), source, c
}

func TestHierarchyClosures(t *testing.T) {
	ctx := context.Background()
	hierarchy, _, _ := newHierarchyFixture(t)
	require.NoError(t, hierarchy.Load(ctx))

	direct, err := hierarchy.GetDirectChildren(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 7}, direct)

	recursive, err := hierarchy.GetRecursiveChildren(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 7}, recursive)

	parents, err := hierarchy.GetParents(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, parents)

	selfAndChildren, err := hierarchy.GetSelfAndRecursiveChildren(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6, 7}, selfAndChildren)

	selfAndParents, err := hierarchy.GetSelfAndParents(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 5}, selfAndParents)
}

func TestHierarchyReadThroughLoadsOnMiss(t *testing.T) {
	ctx := context.Background()
	hierarchy, _, _ := newHierarchyFixture(t)

	// No Load has run yet; the first read rebuilds everything.
	recursive, err := hierarchy.GetRecursiveChildren(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 7}, recursive)
}

func TestHierarchyInvalidateOnReparent(t *testing.T) {
	ctx := context.Background()
	hierarchy, source, _ := newHierarchyFixture(t)
	require.NoError(t, hierarchy.Load(ctx))

	// Move 7 under 6, then invalidate; the next read reloads the new
	// tree from the source.
	source.orgs = []types.OrganizationModelView{
		{ID: 5, ShortName: "root"},
		{ID: 6, ShortName: "east", ParentOrganizationID: 5},
		{ID: 7, ShortName: "west", ParentOrganizationID: 6},
	}
	require.NoError(t, hierarchy.Invalidate(ctx, 7, 5, 6))

	recursive, err := hierarchy.GetRecursiveChildren(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, recursive)

	recursive, err = hierarchy.GetRecursiveChildren(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 7}, recursive)

	parents, err := hierarchy.GetParents(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 5}, parents)
}

func TestHierarchyTree(t *testing.T) {
	ctx := context.Background()
	hierarchy, _, _ := newHierarchyFixture(t)

	tree, err := hierarchy.GetTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	root := tree.Children[0]
	assert.Equal(t, int64(5), root.OrganizationID)
	assert.Equal(t, "root", root.ShortName)
	require.Len(t, root.Children, 2)
	assert.Equal(t, int64(6), root.Children[0].OrganizationID)
	assert.Equal(t, int64(7), root.Children[1].OrganizationID)
}
