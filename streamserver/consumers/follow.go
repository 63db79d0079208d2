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
)

// OutputFollowEventConsumer keeps the mirrored follower lists in step
// with follow/unfollow events.
type OutputFollowEventConsumer struct {
	ctx       context.Context
	jetstream nats.JetStreamContext
	durable   string
	topic     string
	people    *cache.PersonFollowerMapper
	groups    *cache.GroupFollowerMapper
}

func NewOutputFollowEventConsumer(
	process *process.ProcessContext,
	cfg *config.StreamServer,
	js nats.JetStreamContext,
	people *cache.PersonFollowerMapper,
	groups *cache.GroupFollowerMapper,
) *OutputFollowEventConsumer {
	return &OutputFollowEventConsumer{
		ctx:       process.Context(),
		jetstream: js,
		durable:   cfg.Global.JetStream.Durable("StreamServerFollowConsumer"),
		topic:     cfg.Global.JetStream.TopicFor(jetstream.OutputFollowEvent),
		people:    people,
		groups:    groups,
	}
}

func (s *OutputFollowEventConsumer) Start() error {
	return jetstream.JetStreamConsumer(
		s.ctx, s.jetstream, s.topic, s.durable, 1, s.onMessage,
		nats.DeliverAll(), nats.ManualAck(),
	)
}

func (s *OutputFollowEventConsumer) onMessage(ctx context.Context, msgs []*nats.Msg) bool {
	msg := msgs[0] // batch size is 1
	var change eventutil.FollowChange
	if err := json.Unmarshal(msg.Data, &change); err != nil {
		log.WithError(err).Error("streamserver follow consumer: message parse failure")
		return true
	}

	log.WithFields(log.Fields{
		"follower_id": change.FollowerID,
		"target_type": change.TargetType,
		"target_id":   change.TargetID,
		"following":   change.Following,
	}).Tracef("Received follow change event")

	var err error
	switch change.TargetType {
	case eventutil.FollowTargetPerson:
		if change.Following {
			err = s.people.Add(ctx, change.FollowerID, change.TargetID)
		} else {
			err = s.people.Remove(ctx, change.FollowerID, change.TargetID)
		}
	case eventutil.FollowTargetGroup:
		if change.Following {
			err = s.groups.Add(ctx, change.FollowerID, change.TargetID)
		} else {
			err = s.groups.Remove(ctx, change.FollowerID, change.TargetID)
		}
	default:
		log.WithField("target_type", change.TargetType).Error("streamserver follow consumer: unknown target type")
		return true
	}
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"follower_id": change.FollowerID,
			"target_id":   change.TargetID,
		}).Error("streamserver follow consumer: cache update failure")
		sentry.CaptureException(err)
		return false
	}
	return true
}
