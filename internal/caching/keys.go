package caching

import "strconv"

// KeyPrefix is a cache key namespace. Keys are built by concatenating
// a prefix with an entity identifier. The prefix strings are part of
// the deployed cache contents and must not be renamed while an existing
// cache cluster is in use.
type KeyPrefix string

const (
	PersonByID           KeyPrefix = "Person:"
	PersonByAccountID    KeyPrefix = "PersonByAccountId:"
	PersonByOpenSocialID KeyPrefix = "PersonByOpenSocialId:"

	GroupByID           KeyPrefix = "Group:"
	GroupByShortName    KeyPrefix = "GroupByShortName:"
	CoordinatorsByGroup KeyPrefix = "GroupCoordinators:"

	OrganizationByID        KeyPrefix = "Org:"
	OrganizationByShortName KeyPrefix = "OrgByShortName:"
	OrgDirectChildren       KeyPrefix = "OrgDirectChildren:"
	OrgRecursiveChildren    KeyPrefix = "OrgRecursiveChildren:"
	OrgParents              KeyPrefix = "OrgParents:"

	// The whole organization tree DTO lives under a single key.
	OrgTree = "OrgTree"

	FollowersByPerson      KeyPrefix = "FollowersByPerson:"
	FollowingByPerson      KeyPrefix = "FollowingByPerson:"
	FollowersByGroup       KeyPrefix = "FollowersByGroup:"
	GroupsFollowedByPerson KeyPrefix = "GroupsFollowedByPerson:"

	ActivityByID                KeyPrefix = "Activity:"
	ActivitiesByCompositeStream KeyPrefix = "ActivitiesByCompositeStream:"
	ActivitiesByEntityStream    KeyPrefix = "ActivitiesByEntityStream:"
	ActivitiesByFollowing       KeyPrefix = "ActivitiesByFollowing:"

	UnreadAlertCountByPerson KeyPrefix = "UnreadAlertCountByPerson:"
)

// Key builds the cache key for a numeric entity id.
func (p KeyPrefix) Key(id int64) string {
	return string(p) + strconv.FormatInt(id, 10)
}

// KeyFor builds the cache key for a string identifier, e.g. an account
// id or a short name.
func (p KeyPrefix) KeyFor(id string) string {
	return string(p) + id
}
