package storage

import (
	"context"

	"github.com/orbitsocial/orbit/streamserver/types"
)

// Database is the streamserver view of the relational datastore. The
// cache loaders read bulk sets through this interface; the mutators
// write through it and are expected to publish the matching change
// event afterwards.
type Database interface {
	// People
	GetAllPeople(ctx context.Context) ([]types.PersonModelView, error)
	GetPeopleByIDs(ctx context.Context, ids []int64) ([]types.PersonModelView, error)
	CreatePerson(ctx context.Context, p *types.PersonModelView) (int64, error)
	UpdatePerson(ctx context.Context, p *types.PersonModelView) error

	// Groups
	GetAllGroups(ctx context.Context) ([]types.DomainGroupModelView, error)
	GetGroupsByIDs(ctx context.Context, ids []int64) ([]types.DomainGroupModelView, error)
	CreateGroup(ctx context.Context, g *types.DomainGroupModelView, parentOrgID int64) (int64, error)
	RenameGroup(ctx context.Context, groupID int64, name string) error

	// Organizations
	GetAllOrganizations(ctx context.Context) ([]types.OrganizationModelView, error)
	GetOrganizationsByIDs(ctx context.Context, ids []int64) ([]types.OrganizationModelView, error)
	CreateOrganization(ctx context.Context, o *types.OrganizationModelView) (int64, error)
	ReparentOrganization(ctx context.Context, orgID, newParentID int64) error

	// Person follows
	GetPersonFollowerIDs(ctx context.Context, followedID int64) ([]int64, error)
	GetPersonFollowingIDs(ctx context.Context, followerID int64) ([]int64, error)
	GetAllPersonFollowerPairs(ctx context.Context) ([][2]int64, error)
	AddPersonFollower(ctx context.Context, followerID, followedID int64) error
	RemovePersonFollower(ctx context.Context, followerID, followedID int64) error

	// Group follows
	GetGroupFollowerIDs(ctx context.Context, groupID int64) ([]int64, error)
	GetFollowedGroupIDs(ctx context.Context, personID int64) ([]int64, error)
	GetAllGroupFollowerPairs(ctx context.Context) ([][2]int64, error)
	AddGroupFollower(ctx context.Context, personID, groupID int64) error
	RemoveGroupFollower(ctx context.Context, personID, groupID int64) error

	// Coordinators
	GetCoordinatorIDsByGroup(ctx context.Context, groupID int64) ([]int64, error)
	GetAllCoordinatorPairs(ctx context.Context) ([][2]int64, error)
	GetGroupIDsByCoordinator(ctx context.Context, personID int64) ([]int64, error)

	// Activities
	GetActivitiesByIDs(ctx context.Context, ids []int64) ([]types.ActivityModelView, error)
	GetRecentActivityIDsByStreamScope(ctx context.Context, streamScopeID int64, limit int) ([]int64, error)
	CreateActivity(ctx context.Context, a *types.ActivityModelView) (int64, error)
	DeleteActivity(ctx context.Context, activityID int64) error

	// Composite streams
	GetAllCompositeStreams(ctx context.Context) ([]types.CompositeStream, error)
	GetCompositeStreamsByOwner(ctx context.Context, ownerPersonID int64) ([]types.CompositeStream, error)
	GetCompositeStreamIDsByScope(ctx context.Context, scopeType types.ScopeType, scopeID int64) ([]int64, error)
}
