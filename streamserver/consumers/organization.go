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

// OutputOrganizationEventConsumer applies organization change events,
// including tree re-parenting, to the cache.
type OutputOrganizationEventConsumer struct {
	ctx       context.Context
	jetstream nats.JetStreamContext
	durable   string
	topic     string
	db        storage.Database
	updater   *cache.OrganizationUpdater
}

func NewOutputOrganizationEventConsumer(
	process *process.ProcessContext,
	cfg *config.StreamServer,
	js nats.JetStreamContext,
	store storage.Database,
	updater *cache.OrganizationUpdater,
) *OutputOrganizationEventConsumer {
	return &OutputOrganizationEventConsumer{
		ctx:       process.Context(),
		jetstream: js,
		durable:   cfg.Global.JetStream.Durable("StreamServerOrgConsumer"),
		topic:     cfg.Global.JetStream.TopicFor(jetstream.OutputOrganizationEvent),
		db:        store,
		updater:   updater,
	}
}

func (s *OutputOrganizationEventConsumer) Start() error {
	return jetstream.JetStreamConsumer(
		s.ctx, s.jetstream, s.topic, s.durable, 1, s.onMessage,
		nats.DeliverAll(), nats.ManualAck(),
	)
}

func (s *OutputOrganizationEventConsumer) onMessage(ctx context.Context, msgs []*nats.Msg) bool {
	msg := msgs[0] // batch size is 1
	var change eventutil.OrganizationChange
	if err := json.Unmarshal(msg.Data, &change); err != nil {
		log.WithError(err).Error("streamserver org consumer: message parse failure")
		return true
	}

	log.WithFields(log.Fields{
		"organization_id": change.OrganizationID,
		"op":              change.Op,
		"reparented":      change.Reparented,
	}).Tracef("Received organization change event")

	var err error
	switch {
	case change.Op == eventutil.EntityCreated:
		err = s.updater.OnCreated(ctx, change.OrganizationID, change.NewParentID)
	case change.Op == eventutil.EntityUpdated && change.Reparented:
		err = s.updater.OnReparented(ctx, change.OrganizationID, change.OldParentID, change.NewParentID)
	case change.Op == eventutil.EntityUpdated:
		err = s.updater.OnUpdated(ctx, change.OrganizationID)
	case change.Op == eventutil.EntityDeleted:
		orgs, lookupErr := s.db.GetOrganizationsByIDs(ctx, []int64{change.OrganizationID})
		if lookupErr != nil {
			err = lookupErr
			break
		}
		shortName := ""
		if len(orgs) > 0 {
			shortName = orgs[0].ShortName
		}
		err = s.updater.OnDeleted(ctx, change.OrganizationID, change.OldParentID, shortName)
	default:
		log.WithField("op", change.Op).Error("streamserver org consumer: unknown entity op")
		return true
	}
	if err != nil {
		log.WithError(err).WithField("organization_id", change.OrganizationID).Error("streamserver org consumer: cache update failure")
		sentry.CaptureException(err)
		return false
	}
	return true
}
