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

	"github.com/orbitsocial/orbit/internal/eventutil"
	"github.com/orbitsocial/orbit/setup/config"
	"github.com/orbitsocial/orbit/setup/jetstream"
	"github.com/orbitsocial/orbit/setup/process"
	"github.com/orbitsocial/orbit/streamserver/cache"
	"github.com/orbitsocial/orbit/streamserver/storage"
)

// OutputGroupEventConsumer applies group change events to the cache.
type OutputGroupEventConsumer struct {
	ctx       context.Context
	jetstream nats.JetStreamContext
	durable   string
	topic     string
	db        storage.Database
	updater   *cache.GroupUpdater
}

func NewOutputGroupEventConsumer(
	process *process.ProcessContext,
	cfg *config.StreamServer,
	js nats.JetStreamContext,
	store storage.Database,
	updater *cache.GroupUpdater,
) *OutputGroupEventConsumer {
	return &OutputGroupEventConsumer{
		ctx:       process.Context(),
		jetstream: js,
		durable:   cfg.Global.JetStream.Durable("StreamServerGroupConsumer"),
		topic:     cfg.Global.JetStream.TopicFor(jetstream.OutputGroupEvent),
		db:        store,
		updater:   updater,
	}
}

func (s *OutputGroupEventConsumer) Start() error {
	return jetstream.JetStreamConsumer(
		s.ctx, s.jetstream, s.topic, s.durable, 1, s.onMessage,
		nats.DeliverAll(), nats.ManualAck(),
	)
}

func (s *OutputGroupEventConsumer) onMessage(ctx context.Context, msgs []*nats.Msg) bool {
	msg := msgs[0] // batch size is 1
	var change eventutil.GroupChange
	if err := json.Unmarshal(msg.Data, &change); err != nil {
		log.WithError(err).Error("streamserver group consumer: message parse failure")
		return true
	}

	log.WithFields(log.Fields{
		"group_id": change.GroupID,
		"op":       change.Op,
	}).Tracef("Received group change event")

	var err error
	switch change.Op {
	case eventutil.EntityCreated:
		err = s.updater.OnCreated(ctx, change.GroupID)
	case eventutil.EntityUpdated:
		err = s.updater.OnUpdated(ctx, change.GroupID)
	case eventutil.EntityDeleted:
		groups, lookupErr := s.db.GetGroupsByIDs(ctx, []int64{change.GroupID})
		if lookupErr != nil {
			err = lookupErr
			break
		}
		shortName := ""
		if len(groups) > 0 {
			shortName = groups[0].ShortName
		}
		err = s.updater.OnDeleted(ctx, change.GroupID, shortName)
	default:
		log.WithField("op", change.Op).Error("streamserver group consumer: unknown entity op")
		return true
	}
	if err != nil {
		log.WithError(err).WithField("group_id", change.GroupID).Error("streamserver group consumer: cache update failure")
		sentry.CaptureException(err)
		return false
	}
	return true
}
