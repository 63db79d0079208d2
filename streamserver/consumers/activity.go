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

package consumers

import (
	"context"
	"encoding/json"

	"github.com/getsentry/sentry-go"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/orbitsocial/orbit/internal/caching"
	"github.com/orbitsocial/orbit/internal/eventutil"
	"github.com/orbitsocial/orbit/setup/config"
	"github.com/orbitsocial/orbit/setup/jetstream"
	"github.com/orbitsocial/orbit/setup/process"
	"github.com/orbitsocial/orbit/streamserver/cache"
	"github.com/orbitsocial/orbit/streamserver/storage"
	"github.com/orbitsocial/orbit/streamserver/types"
)

// OutputActivityEventConsumer maintains the bounded activity id feeds
// when activities are posted or deleted. Deletes fan the removal out to
// every stream list that could hold the id.
type OutputActivityEventConsumer struct {
	ctx       context.Context
	jetstream nats.JetStreamContext
	durable   string
	topic     string
	db        storage.Database
	cache     caching.Cache
	lists     *cache.ActivityListMapper
	followers *cache.PersonFollowerMapper
}

func NewOutputActivityEventConsumer(
	process *process.ProcessContext,
	cfg *config.StreamServer,
	js nats.JetStreamContext,
	store storage.Database,
	c caching.Cache,
	lists *cache.ActivityListMapper,
	followers *cache.PersonFollowerMapper,
) *OutputActivityEventConsumer {
	return &OutputActivityEventConsumer{
		ctx:       process.Context(),
		jetstream: js,
		durable:   cfg.Global.JetStream.Durable("StreamServerActivityConsumer"),
		topic:     cfg.Global.JetStream.TopicFor(jetstream.OutputActivityEvent),
		db:        store,
		cache:     c,
		lists:     lists,
		followers: followers,
	}
}

func (s *OutputActivityEventConsumer) Start() error {
	return jetstream.JetStreamConsumer(
		s.ctx, s.jetstream, s.topic, s.durable, 1, s.onMessage,
		nats.DeliverAll(), nats.ManualAck(),
	)
}

func (s *OutputActivityEventConsumer) onMessage(ctx context.Context, msgs []*nats.Msg) bool {
	msg := msgs[0] // batch size is 1
	// Peek the op before a full parse so obviously uninteresting
	// messages can be acked cheaply.
	switch op := gjson.GetBytes(msg.Data, "op").Str; eventutil.EntityOp(op) {
	case eventutil.EntityCreated, eventutil.EntityDeleted:
	default:
		return true
	}

	var change eventutil.ActivityChange
	if err := json.Unmarshal(msg.Data, &change); err != nil {
		log.WithError(err).Error("streamserver activity consumer: message parse failure")
		return true
	}

	log.WithFields(log.Fields{
		"activity_id": change.ActivityID,
		"op":          change.Op,
	}).Tracef("Received activity change event")

	var err error
	switch change.Op {
	case eventutil.EntityCreated:
		err = s.onPosted(ctx, &change)
	case eventutil.EntityDeleted:
		err = s.onDeleted(ctx, &change)
	}
	if err != nil {
		log.WithError(err).WithField("activity_id", change.ActivityID).Error("streamserver activity consumer: cache update failure")
		sentry.CaptureException(err)
		return false
	}
	return true
}

func (s *OutputActivityEventConsumer) onPosted(ctx context.Context, change *eventutil.ActivityChange) error {
	activities, err := s.db.GetActivitiesByIDs(ctx, []int64{change.ActivityID})
	if err != nil {
		return err
	}
	if len(activities) > 0 {
		a := activities[0]
		if err := caching.SetJSON(ctx, s.cache, caching.ActivityByID.Key(a.ID), a); err != nil {
			return err
		}
		if err := s.lists.AddToEntityStream(ctx, a.StreamScopeID, a.ID); err != nil {
			return err
		}
	}
	for _, streamID := range change.DestinationStreamIDs {
		if err := s.lists.AddToCompositeStream(ctx, streamID, change.ActivityID); err != nil {
			return err
		}
	}
	followerIDs, err := s.followers.Followers(ctx, change.ActorPersonID)
	if err != nil {
		return err
	}
	for _, personID := range followerIDs {
		if err := s.lists.AddToFollowingList(ctx, personID, change.ActivityID); err != nil {
			return err
		}
	}
	return nil
}

func (s *OutputActivityEventConsumer) onDeleted(ctx context.Context, change *eventutil.ActivityChange) error {
	ids := []int64{change.ActivityID}
	if err := s.lists.RemoveFromCompositeStreams(ctx, change.DestinationStreamIDs, ids); err != nil {
		return err
	}
	followerIDs, err := s.followers.Followers(ctx, change.ActorPersonID)
	if err != nil {
		return err
	}
	if err := s.lists.RemoveFromFollowingLists(ctx, followerIDs, ids); err != nil {
		return err
	}
	// The row is already gone; the cached view is the only place the
	// stream scope id survives until this delete completes.
	view, found, err := caching.GetJSON[types.ActivityModelView](ctx, s.cache, caching.ActivityByID.Key(change.ActivityID))
	if err != nil {
		return err
	}
	if found {
		if err := s.lists.RemoveFromEntityStream(ctx, view.StreamScopeID, ids); err != nil {
			return err
		}
	}
	return s.cache.Delete(ctx, caching.ActivityByID.Key(change.ActivityID))
}
