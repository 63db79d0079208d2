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

package types

import "fmt"

// PersonModelView is the denormalized, read-optimized snapshot of a
// person stored in cache. There is exactly one entry per person id; the
// account-id and OpenSocial-id lookup entries map back onto the same id
// and must stay consistent with it.
type PersonModelView struct {
	ID                     int64   `json:"id"`
	AccountID              string  `json:"account_id"`
	OpenSocialID           string  `json:"open_social_id"`
	DisplayName            string  `json:"display_name"`
	Email                  string  `json:"email,omitempty"`
	AvatarID               string  `json:"avatar_id"`
	ParentOrganizationID   int64   `json:"parent_organization_id"`
	RelatedOrganizationIDs []int64 `json:"related_organization_ids,omitempty"`
	StreamID               int64   `json:"stream_id"`
	FollowersCount         int     `json:"followers_count"`
}

// DomainGroupModelView is the cached snapshot of a domain group. Short
// names are immutable, so the short-name lookup entry survives updates
// and only the by-id entry is invalidated.
type DomainGroupModelView struct {
	ID                          int64  `json:"id"`
	ShortName                   string `json:"short_name"`
	Name                        string `json:"name"`
	ParentOrganizationShortName string `json:"parent_organization_short_name"`
	Pending                     bool   `json:"pending"`
	Public                      bool   `json:"public"`
	StreamID                    int64  `json:"stream_id"`
}

// OrganizationModelView is the cached snapshot of an organization.
type OrganizationModelView struct {
	ID                   int64  `json:"id"`
	ShortName            string `json:"short_name"`
	Name                 string `json:"name"`
	ParentOrganizationID int64  `json:"parent_organization_id"`
}

// OrgTreeNode is a node in the full organization tree DTO. The tree is
// rebuilt wholesale on any structural change rather than spliced.
type OrgTreeNode struct {
	OrganizationID int64          `json:"organization_id"`
	ShortName      string         `json:"short_name"`
	Children       []*OrgTreeNode `json:"children,omitempty"`
}

// ActivityModelView is the cached snapshot of a single activity.
type ActivityModelView struct {
	ID              int64  `json:"id"`
	ActorPersonID   int64  `json:"actor_person_id"`
	StreamScopeID   int64  `json:"stream_scope_id"`
	Verb            string `json:"verb"`
	Content         string `json:"content"`
	PostedTimeMilli int64  `json:"posted_time_milli"`
}

// ScopeType identifies what kind of entity a stream scope belongs to.
type ScopeType string

const (
	ScopePerson       ScopeType = "PERSON"
	ScopeGroup        ScopeType = "GROUP"
	ScopeOrganization ScopeType = "ORGANIZATION"
	ScopeAll          ScopeType = "ALL"
	ScopeFollowing    ScopeType = "FOLLOWING"
)

// Validate returns an error for ScopeType values the stream layer does
// not understand. Fatal to the current request, never retried.
func (s ScopeType) Validate() error {
	switch s {
	case ScopePerson, ScopeGroup, ScopeOrganization, ScopeAll, ScopeFollowing:
		return nil
	default:
		return fmt.Errorf("unsupported scope type %q", string(s))
	}
}

// CompositeStream is a named, potentially filtered feed definition
// owned by a person. The cached representation of its contents is the
// bounded activity id list.
type CompositeStream struct {
	ID            int64     `json:"id"`
	OwnerPersonID int64     `json:"owner_person_id"`
	Name          string    `json:"name"`
	ScopeType     ScopeType `json:"scope_type"`
	ScopeID       int64     `json:"scope_id"`
}
