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

package tables

import (
	"context"
	"database/sql"

	"github.com/orbitsocial/orbit/streamserver/types"
)

type People interface {
	SelectAllPeople(ctx context.Context) ([]types.PersonModelView, error)
	SelectPeopleByIDs(ctx context.Context, ids []int64) ([]types.PersonModelView, error)
	InsertPerson(ctx context.Context, txn *sql.Tx, p *types.PersonModelView) (int64, error)
	UpdatePerson(ctx context.Context, txn *sql.Tx, p *types.PersonModelView) error
}

type Groups interface {
	SelectAllGroups(ctx context.Context) ([]types.DomainGroupModelView, error)
	SelectGroupsByIDs(ctx context.Context, ids []int64) ([]types.DomainGroupModelView, error)
	InsertGroup(ctx context.Context, txn *sql.Tx, g *types.DomainGroupModelView, parentOrgID int64) (int64, error)
	UpdateGroupName(ctx context.Context, txn *sql.Tx, groupID int64, name string) error
}

type Organizations interface {
	SelectAllOrganizations(ctx context.Context) ([]types.OrganizationModelView, error)
	SelectOrganizationsByIDs(ctx context.Context, ids []int64) ([]types.OrganizationModelView, error)
	InsertOrganization(ctx context.Context, txn *sql.Tx, o *types.OrganizationModelView) (int64, error)
	UpdateOrganizationParent(ctx context.Context, txn *sql.Tx, orgID, newParentID int64) error
}

// PersonFollowers stores the person-follows-person relationship. Each
// row is one directed edge.
type PersonFollowers interface {
	SelectFollowerIDs(ctx context.Context, followedID int64) ([]int64, error)
	SelectFollowingIDs(ctx context.Context, followerID int64) ([]int64, error)
	SelectAllFollowerPairs(ctx context.Context) ([][2]int64, error)
	InsertFollower(ctx context.Context, txn *sql.Tx, followerID, followedID int64) error
	DeleteFollower(ctx context.Context, txn *sql.Tx, followerID, followedID int64) error
}

type GroupFollowers interface {
	SelectFollowerIDs(ctx context.Context, groupID int64) ([]int64, error)
	SelectFollowedGroupIDs(ctx context.Context, personID int64) ([]int64, error)
	SelectAllFollowerPairs(ctx context.Context) ([][2]int64, error)
	InsertFollower(ctx context.Context, txn *sql.Tx, personID, groupID int64) error
	DeleteFollower(ctx context.Context, txn *sql.Tx, personID, groupID int64) error
}

type Coordinators interface {
	SelectCoordinatorIDsByGroup(ctx context.Context, groupID int64) ([]int64, error)
	// SelectAllCoordinatorPairs returns (person id, group id) pairs for
	// every group coordinator, for the bulk loader.
	SelectAllCoordinatorPairs(ctx context.Context) ([][2]int64, error)
	SelectGroupIDsByCoordinator(ctx context.Context, personID int64) ([]int64, error)
}

type Activities interface {
	SelectActivitiesByIDs(ctx context.Context, ids []int64) ([]types.ActivityModelView, error)
	SelectRecentActivityIDsByStreamScope(ctx context.Context, streamScopeID int64, limit int) ([]int64, error)
	InsertActivity(ctx context.Context, txn *sql.Tx, a *types.ActivityModelView) (int64, error)
	DeleteActivity(ctx context.Context, txn *sql.Tx, activityID int64) error
}

type CompositeStreams interface {
	SelectAllCompositeStreams(ctx context.Context) ([]types.CompositeStream, error)
	SelectCompositeStreamsByOwner(ctx context.Context, ownerPersonID int64) ([]types.CompositeStream, error)
	SelectCompositeStreamIDsByScope(ctx context.Context, scopeType types.ScopeType, scopeID int64) ([]int64, error)
}
