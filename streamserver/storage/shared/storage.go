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

package shared

import (
	"context"
	"database/sql"

	"github.com/orbitsocial/orbit/internal/sqlutil"
	"github.com/orbitsocial/orbit/streamserver/storage/tables"
	"github.com/orbitsocial/orbit/streamserver/types"
)

type Database struct {
	DB     *sql.DB
	Writer sqlutil.Writer

	People           tables.People
	Groups           tables.Groups
	Organizations    tables.Organizations
	PersonFollowers  tables.PersonFollowers
	GroupFollowers   tables.GroupFollowers
	Coordinators     tables.Coordinators
	Activities       tables.Activities
	CompositeStreams tables.CompositeStreams
}

func (d *Database) GetAllPeople(ctx context.Context) ([]types.PersonModelView, error) {
	return d.People.SelectAllPeople(ctx)
}

func (d *Database) GetPeopleByIDs(ctx context.Context, ids []int64) ([]types.PersonModelView, error) {
	return d.People.SelectPeopleByIDs(ctx, ids)
}

func (d *Database) CreatePerson(ctx context.Context, p *types.PersonModelView) (id int64, err error) {
	err = d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		id, err = d.People.InsertPerson(ctx, txn, p)
		return err
	})
	return
}

func (d *Database) UpdatePerson(ctx context.Context, p *types.PersonModelView) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.People.UpdatePerson(ctx, txn, p)
	})
}

func (d *Database) GetAllGroups(ctx context.Context) ([]types.DomainGroupModelView, error) {
	return d.Groups.SelectAllGroups(ctx)
}

func (d *Database) GetGroupsByIDs(ctx context.Context, ids []int64) ([]types.DomainGroupModelView, error) {
	return d.Groups.SelectGroupsByIDs(ctx, ids)
}

func (d *Database) CreateGroup(ctx context.Context, g *types.DomainGroupModelView, parentOrgID int64) (id int64, err error) {
	err = d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		id, err = d.Groups.InsertGroup(ctx, txn, g, parentOrgID)
		return err
	})
	return
}

func (d *Database) RenameGroup(ctx context.Context, groupID int64, name string) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.Groups.UpdateGroupName(ctx, txn, groupID, name)
	})
}

func (d *Database) GetAllOrganizations(ctx context.Context) ([]types.OrganizationModelView, error) {
	return d.Organizations.SelectAllOrganizations(ctx)
}

func (d *Database) GetOrganizationsByIDs(ctx context.Context, ids []int64) ([]types.OrganizationModelView, error) {
	return d.Organizations.SelectOrganizationsByIDs(ctx, ids)
}

func (d *Database) CreateOrganization(ctx context.Context, o *types.OrganizationModelView) (id int64, err error) {
	err = d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		id, err = d.Organizations.InsertOrganization(ctx, txn, o)
		return err
	})
	return
}

func (d *Database) ReparentOrganization(ctx context.Context, orgID, newParentID int64) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.Organizations.UpdateOrganizationParent(ctx, txn, orgID, newParentID)
	})
}

func (d *Database) GetPersonFollowerIDs(ctx context.Context, followedID int64) ([]int64, error) {
	return d.PersonFollowers.SelectFollowerIDs(ctx, followedID)
}

func (d *Database) GetPersonFollowingIDs(ctx context.Context, followerID int64) ([]int64, error) {
	return d.PersonFollowers.SelectFollowingIDs(ctx, followerID)
}

func (d *Database) GetAllPersonFollowerPairs(ctx context.Context) ([][2]int64, error) {
	return d.PersonFollowers.SelectAllFollowerPairs(ctx)
}

func (d *Database) AddPersonFollower(ctx context.Context, followerID, followedID int64) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.PersonFollowers.InsertFollower(ctx, txn, followerID, followedID)
	})
}

func (d *Database) RemovePersonFollower(ctx context.Context, followerID, followedID int64) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.PersonFollowers.DeleteFollower(ctx, txn, followerID, followedID)
	})
}

func (d *Database) GetGroupFollowerIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return d.GroupFollowers.SelectFollowerIDs(ctx, groupID)
}

func (d *Database) GetFollowedGroupIDs(ctx context.Context, personID int64) ([]int64, error) {
	return d.GroupFollowers.SelectFollowedGroupIDs(ctx, personID)
}

func (d *Database) GetAllGroupFollowerPairs(ctx context.Context) ([][2]int64, error) {
	return d.GroupFollowers.SelectAllFollowerPairs(ctx)
}

func (d *Database) AddGroupFollower(ctx context.Context, personID, groupID int64) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.GroupFollowers.InsertFollower(ctx, txn, personID, groupID)
	})
}

func (d *Database) RemoveGroupFollower(ctx context.Context, personID, groupID int64) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.GroupFollowers.DeleteFollower(ctx, txn, personID, groupID)
	})
}

func (d *Database) GetCoordinatorIDsByGroup(ctx context.Context, groupID int64) ([]int64, error) {
	return d.Coordinators.SelectCoordinatorIDsByGroup(ctx, groupID)
}

func (d *Database) GetAllCoordinatorPairs(ctx context.Context) ([][2]int64, error) {
	return d.Coordinators.SelectAllCoordinatorPairs(ctx)
}

func (d *Database) GetGroupIDsByCoordinator(ctx context.Context, personID int64) ([]int64, error) {
	return d.Coordinators.SelectGroupIDsByCoordinator(ctx, personID)
}

func (d *Database) GetActivitiesByIDs(ctx context.Context, ids []int64) ([]types.ActivityModelView, error) {
	return d.Activities.SelectActivitiesByIDs(ctx, ids)
}

func (d *Database) GetRecentActivityIDsByStreamScope(ctx context.Context, streamScopeID int64, limit int) ([]int64, error) {
	return d.Activities.SelectRecentActivityIDsByStreamScope(ctx, streamScopeID, limit)
}

func (d *Database) CreateActivity(ctx context.Context, a *types.ActivityModelView) (id int64, err error) {
	err = d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		id, err = d.Activities.InsertActivity(ctx, txn, a)
		return err
	})
	return
}

func (d *Database) DeleteActivity(ctx context.Context, activityID int64) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.Activities.DeleteActivity(ctx, txn, activityID)
	})
}

func (d *Database) GetAllCompositeStreams(ctx context.Context) ([]types.CompositeStream, error) {
	return d.CompositeStreams.SelectAllCompositeStreams(ctx)
}

func (d *Database) GetCompositeStreamsByOwner(ctx context.Context, ownerPersonID int64) ([]types.CompositeStream, error) {
	return d.CompositeStreams.SelectCompositeStreamsByOwner(ctx, ownerPersonID)
}

func (d *Database) GetCompositeStreamIDsByScope(ctx context.Context, scopeType types.ScopeType, scopeID int64) ([]int64, error) {
	return d.CompositeStreams.SelectCompositeStreamIDsByScope(ctx, scopeType, scopeID)
}
