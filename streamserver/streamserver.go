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

package streamserver

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/orbitsocial/orbit/internal/caching"
	"github.com/orbitsocial/orbit/internal/eventutil"
	"github.com/orbitsocial/orbit/setup/config"
	"github.com/orbitsocial/orbit/setup/jetstream"
	"github.com/orbitsocial/orbit/setup/process"
	"github.com/orbitsocial/orbit/streamserver/cache"
	"github.com/orbitsocial/orbit/streamserver/consumers"
	"github.com/orbitsocial/orbit/streamserver/producers"
	"github.com/orbitsocial/orbit/streamserver/storage"
	"github.com/orbitsocial/orbit/streamserver/types"
)

// StreamServer is the entity cache consistency component. Mutation
// methods write to the database and publish the matching change event;
// the consumers apply those events to the cache. Reads go through the
// loaders, cache first.
type StreamServer struct {
	DB        storage.Database
	Cache     caching.Cache
	Producer  *producers.ChangeEventProducer
	People    *cache.PersonLoader
	Groups    *cache.GroupLoader
	Orgs      *cache.OrganizationLoader
	Streams   *cache.StreamLoader
	Hierarchy *cache.OrganizationHierarchyCache
}

// NewInternalAPI wires storage, cache mappers, producers and consumers
// for the stream server and starts the consumers.
func NewInternalAPI(
	process *process.ProcessContext,
	cfg *config.StreamServer,
	cacheClient caching.Cache,
	js nats.JetStreamContext,
) *StreamServer {
	db, err := storage.NewDatabase(cfg.DatabaseOpts())
	if err != nil {
		logrus.WithError(err).Panicf("failed to connect to streamserver db")
	}

	producer := &producers.ChangeEventProducer{
		JetStream:              js,
		TopicPersonEvent:       cfg.Global.JetStream.TopicFor(jetstream.OutputPersonEvent),
		TopicGroupEvent:        cfg.Global.JetStream.TopicFor(jetstream.OutputGroupEvent),
		TopicOrganizationEvent: cfg.Global.JetStream.TopicFor(jetstream.OutputOrganizationEvent),
		TopicFollowEvent:       cfg.Global.JetStream.TopicFor(jetstream.OutputFollowEvent),
		TopicActivityEvent:     cfg.Global.JetStream.TopicFor(jetstream.OutputActivityEvent),
		TopicNotification:      cfg.Global.JetStream.TopicFor(jetstream.RequestNotification),
	}

	hierarchy := cache.NewOrganizationHierarchyCache(cacheClient, db)
	personFollowers := cache.NewPersonFollowerMapper(cacheClient, db)
	groupFollowers := cache.NewGroupFollowerMapper(cacheClient, db)
	lists := cache.NewActivityListMapper(cacheClient, cfg.MaxActivityListSize)

	server := &StreamServer{
		DB:        db,
		Cache:     cacheClient,
		Producer:  producer,
		People:    &cache.PersonLoader{DB: db, Cache: cacheClient},
		Groups:    &cache.GroupLoader{DB: db, Cache: cacheClient},
		Orgs:      &cache.OrganizationLoader{DB: db, Cache: cacheClient, Hierarchy: hierarchy},
		Streams:   &cache.StreamLoader{DB: db, Cache: cacheClient, Maximum: cfg.MaxActivityListSize},
		Hierarchy: hierarchy,
	}

	personUpdater := &cache.PersonUpdater{Cache: cacheClient}
	groupUpdater := &cache.GroupUpdater{Cache: cacheClient}
	orgUpdater := &cache.OrganizationUpdater{Cache: cacheClient, Hierarchy: hierarchy}

	if err := consumers.NewOutputPersonEventConsumer(process, cfg, js, db, personUpdater).Start(); err != nil {
		logrus.WithError(err).Panicf("failed to start person consumer")
	}
	if err := consumers.NewOutputGroupEventConsumer(process, cfg, js, db, groupUpdater).Start(); err != nil {
		logrus.WithError(err).Panicf("failed to start group consumer")
	}
	if err := consumers.NewOutputOrganizationEventConsumer(process, cfg, js, db, orgUpdater).Start(); err != nil {
		logrus.WithError(err).Panicf("failed to start organization consumer")
	}
	if err := consumers.NewOutputFollowEventConsumer(process, cfg, js, personFollowers, groupFollowers).Start(); err != nil {
		logrus.WithError(err).Panicf("failed to start follow consumer")
	}
	if err := consumers.NewOutputActivityEventConsumer(process, cfg, js, db, cacheClient, lists, personFollowers).Start(); err != nil {
		logrus.WithError(err).Panicf("failed to start activity consumer")
	}

	return server
}

// WarmCaches runs every loader against the current database contents.
func (s *StreamServer) WarmCaches(ctx context.Context) error {
	if err := s.Orgs.Load(ctx); err != nil {
		return fmt.Errorf("warming organizations: %w", err)
	}
	if err := s.Groups.Load(ctx); err != nil {
		return fmt.Errorf("warming groups: %w", err)
	}
	if err := s.People.Load(ctx); err != nil {
		return fmt.Errorf("warming people: %w", err)
	}
	if err := s.Streams.Load(ctx); err != nil {
		return fmt.Errorf("warming streams: %w", err)
	}
	return nil
}

// GetPerson reads a person view through the cache.
func (s *StreamServer) GetPerson(ctx context.Context, personID int64) (*types.PersonModelView, error) {
	return s.People.GetByID(ctx, personID)
}

// GetGroup reads a group view through the cache.
func (s *StreamServer) GetGroup(ctx context.Context, groupID int64) (*types.DomainGroupModelView, error) {
	return s.Groups.GetByID(ctx, groupID)
}

// GetGroupCoordinators returns the coordinator person ids of a group.
func (s *StreamServer) GetGroupCoordinators(ctx context.Context, groupID int64) ([]int64, error) {
	return s.Groups.GetCoordinators(ctx, groupID)
}

// GetActivity reads an activity view through the cache.
func (s *StreamServer) GetActivity(ctx context.Context, activityID int64) (*types.ActivityModelView, error) {
	view, err := caching.GetOrCompute(ctx, s.Cache, caching.ActivityByID.Key(activityID), func(ctx context.Context) (types.ActivityModelView, error) {
		activities, err := s.DB.GetActivitiesByIDs(ctx, []int64{activityID})
		if err != nil {
			return types.ActivityModelView{}, err
		}
		if len(activities) == 0 {
			return types.ActivityModelView{}, fmt.Errorf("no such activity %d", activityID)
		}
		return activities[0], nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// GetCommenterIDs returns the distinct authors of comment activities
// in the stream scope of the given activity, the activity's own author
// included if they commented.
func (s *StreamServer) GetCommenterIDs(ctx context.Context, activityID int64) ([]int64, error) {
	activity, err := s.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	recentIDs, err := s.DB.GetRecentActivityIDsByStreamScope(ctx, activity.StreamScopeID, s.Streams.Maximum)
	if err != nil {
		return nil, err
	}
	recent, err := s.DB.GetActivitiesByIDs(ctx, recentIDs)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{})
	var commenters []int64
	for _, a := range recent {
		if a.Verb != "comment" || a.ID == activityID {
			continue
		}
		if _, ok := seen[a.ActorPersonID]; ok {
			continue
		}
		seen[a.ActorPersonID] = struct{}{}
		commenters = append(commenters, a.ActorPersonID)
	}
	return commenters, nil
}

// UpdatePerson persists a person mutation and publishes the change.
func (s *StreamServer) UpdatePerson(ctx context.Context, p *types.PersonModelView) error {
	if err := s.DB.UpdatePerson(ctx, p); err != nil {
		return err
	}
	return s.Producer.PersonChanged(ctx, &eventutil.PersonChange{
		Op:       eventutil.EntityUpdated,
		PersonID: p.ID,
	})
}

// FollowPerson records a person-person follow edge and publishes it.
func (s *StreamServer) FollowPerson(ctx context.Context, followerID, followedID int64) error {
	if err := s.DB.AddPersonFollower(ctx, followerID, followedID); err != nil {
		return err
	}
	if err := s.Producer.FollowChanged(ctx, &eventutil.FollowChange{
		Following:  true,
		FollowerID: followerID,
		TargetType: eventutil.FollowTargetPerson,
		TargetID:   followedID,
	}); err != nil {
		return err
	}
	return s.Producer.RequestNotification(ctx, &eventutil.NotificationRequest{
		EventType:     "FOLLOW_PERSON",
		ActorID:       followerID,
		DestinationID: followedID,
	})
}

// UnfollowPerson removes a person-person follow edge and publishes it.
func (s *StreamServer) UnfollowPerson(ctx context.Context, followerID, followedID int64) error {
	if err := s.DB.RemovePersonFollower(ctx, followerID, followedID); err != nil {
		return err
	}
	return s.Producer.FollowChanged(ctx, &eventutil.FollowChange{
		Following:  false,
		FollowerID: followerID,
		TargetType: eventutil.FollowTargetPerson,
		TargetID:   followedID,
	})
}

// FollowGroup records a person-group follow edge and publishes it.
func (s *StreamServer) FollowGroup(ctx context.Context, personID, groupID int64) error {
	if err := s.DB.AddGroupFollower(ctx, personID, groupID); err != nil {
		return err
	}
	if err := s.Producer.FollowChanged(ctx, &eventutil.FollowChange{
		Following:  true,
		FollowerID: personID,
		TargetType: eventutil.FollowTargetGroup,
		TargetID:   groupID,
	}); err != nil {
		return err
	}
	return s.Producer.RequestNotification(ctx, &eventutil.NotificationRequest{
		EventType:     "FOLLOW_GROUP",
		ActorID:       personID,
		DestinationID: groupID,
	})
}

// UnfollowGroup removes a person-group follow edge and publishes it.
func (s *StreamServer) UnfollowGroup(ctx context.Context, personID, groupID int64) error {
	if err := s.DB.RemoveGroupFollower(ctx, personID, groupID); err != nil {
		return err
	}
	return s.Producer.FollowChanged(ctx, &eventutil.FollowChange{
		Following:  false,
		FollowerID: personID,
		TargetType: eventutil.FollowTargetGroup,
		TargetID:   groupID,
	})
}

// PostActivity persists a new activity, resolves the composite streams
// that should carry it and publishes the change event.
func (s *StreamServer) PostActivity(ctx context.Context, a *types.ActivityModelView, scopeType types.ScopeType, scopeID int64) (int64, error) {
	if err := scopeType.Validate(); err != nil {
		return 0, err
	}
	activityID, err := s.DB.CreateActivity(ctx, a)
	if err != nil {
		return 0, err
	}
	streamIDs, err := s.DB.GetCompositeStreamIDsByScope(ctx, scopeType, scopeID)
	if err != nil {
		return 0, err
	}
	if err := s.Producer.ActivityChanged(ctx, &eventutil.ActivityChange{
		Op:                   eventutil.EntityCreated,
		ActivityID:           activityID,
		ActorPersonID:        a.ActorPersonID,
		DestinationStreamIDs: streamIDs,
	}); err != nil {
		return 0, err
	}
	return activityID, nil
}

// DeleteActivity removes an activity and publishes a delete event
// carrying every composite stream list the id must be removed from.
func (s *StreamServer) DeleteActivity(ctx context.Context, activityID int64) error {
	activities, err := s.DB.GetActivitiesByIDs(ctx, []int64{activityID})
	if err != nil {
		return err
	}
	if len(activities) == 0 {
		return nil
	}
	a := activities[0]
	streamIDs, err := s.DB.GetCompositeStreamIDsByScope(ctx, types.ScopeAll, 0)
	if err != nil {
		return err
	}
	if err := s.DB.DeleteActivity(ctx, activityID); err != nil {
		return err
	}
	return s.Producer.ActivityChanged(ctx, &eventutil.ActivityChange{
		Op:                   eventutil.EntityDeleted,
		ActivityID:           activityID,
		ActorPersonID:        a.ActorPersonID,
		DestinationStreamIDs: streamIDs,
	})
}

// ReparentOrganization moves an org under a new parent and publishes
// the structural change.
func (s *StreamServer) ReparentOrganization(ctx context.Context, orgID, newParentID int64) error {
	orgs, err := s.DB.GetOrganizationsByIDs(ctx, []int64{orgID})
	if err != nil {
		return err
	}
	if len(orgs) == 0 {
		return fmt.Errorf("no such organization %d", orgID)
	}
	oldParentID := orgs[0].ParentOrganizationID
	if err := s.DB.ReparentOrganization(ctx, orgID, newParentID); err != nil {
		return err
	}
	return s.Producer.OrganizationChanged(ctx, &eventutil.OrganizationChange{
		Op:             eventutil.EntityUpdated,
		OrganizationID: orgID,
		Reparented:     true,
		OldParentID:    oldParentID,
		NewParentID:    newParentID,
	})
}
