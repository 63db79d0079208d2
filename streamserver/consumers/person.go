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

// OutputPersonEventConsumer applies person change events to the cache.
type OutputPersonEventConsumer struct {
	ctx       context.Context
	jetstream nats.JetStreamContext
	durable   string
	topic     string
	db        storage.Database
	updater   *cache.PersonUpdater
}

func NewOutputPersonEventConsumer(
	process *process.ProcessContext,
	cfg *config.StreamServer,
	js nats.JetStreamContext,
	store storage.Database,
	updater *cache.PersonUpdater,
) *OutputPersonEventConsumer {
	return &OutputPersonEventConsumer{
		ctx:       process.Context(),
		jetstream: js,
		durable:   cfg.Global.JetStream.Durable("StreamServerPersonConsumer"),
		topic:     cfg.Global.JetStream.TopicFor(jetstream.OutputPersonEvent),
		db:        store,
		updater:   updater,
	}
}

func (s *OutputPersonEventConsumer) Start() error {
	return jetstream.JetStreamConsumer(
		s.ctx, s.jetstream, s.topic, s.durable, 1, s.onMessage,
		nats.DeliverAll(), nats.ManualAck(),
	)
}

func (s *OutputPersonEventConsumer) onMessage(ctx context.Context, msgs []*nats.Msg) bool {
	msg := msgs[0] // batch size is 1
	var change eventutil.PersonChange
	if err := json.Unmarshal(msg.Data, &change); err != nil {
		log.WithError(err).Error("streamserver person consumer: message parse failure")
		return true
	}

	log.WithFields(log.Fields{
		"person_id": change.PersonID,
		"op":        change.Op,
	}).Tracef("Received person change event")

	var err error
	switch change.Op {
	case eventutil.EntityCreated:
		err = s.updater.OnCreated(ctx, change.PersonID)
	case eventutil.EntityUpdated:
		accountID, openSocialID, lookupErr := s.lookupIDs(ctx, change.PersonID)
		if lookupErr != nil {
			err = lookupErr
			break
		}
		err = s.updater.OnUpdated(ctx, change.PersonID, accountID, openSocialID)
	case eventutil.EntityDeleted:
		accountID, openSocialID, lookupErr := s.lookupIDs(ctx, change.PersonID)
		if lookupErr != nil {
			err = lookupErr
			break
		}
		err = s.updater.OnDeleted(ctx, change.PersonID, accountID, openSocialID)
	default:
		log.WithField("op", change.Op).Error("streamserver person consumer: unknown entity op")
		return true
	}
	if err != nil {
		log.WithError(err).WithField("person_id", change.PersonID).Error("streamserver person consumer: cache update failure")
		sentry.CaptureException(err)
		return false
	}
	return true
}

func (s *OutputPersonEventConsumer) lookupIDs(ctx context.Context, personID int64) (string, string, error) {
	people, err := s.db.GetPeopleByIDs(ctx, []int64{personID})
	if err != nil || len(people) == 0 {
		return "", "", err
	}
	return people[0].AccountID, people[0].OpenSocialID, nil
}
