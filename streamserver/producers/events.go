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

package producers

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/orbitsocial/orbit/internal/eventutil"
	"github.com/orbitsocial/orbit/setup/jetstream"
)

// ChangeEventProducer publishes entity change events to JetStream.
// Storage mutators call it after a successful write; the streamserver
// consumers turn the events into cache invalidations and the
// notifserver consumers into notifications.
type ChangeEventProducer struct {
	JetStream              nats.JetStreamContext
	TopicPersonEvent       string
	TopicGroupEvent        string
	TopicOrganizationEvent string
	TopicFollowEvent       string
	TopicActivityEvent     string
	TopicNotification      string
}

func (p *ChangeEventProducer) PersonChanged(ctx context.Context, change *eventutil.PersonChange) error {
	return p.publish(ctx, p.TopicPersonEvent, change.PersonID, "person", change)
}

func (p *ChangeEventProducer) GroupChanged(ctx context.Context, change *eventutil.GroupChange) error {
	return p.publish(ctx, p.TopicGroupEvent, change.GroupID, "group", change)
}

func (p *ChangeEventProducer) OrganizationChanged(ctx context.Context, change *eventutil.OrganizationChange) error {
	return p.publish(ctx, p.TopicOrganizationEvent, change.OrganizationID, "organization", change)
}

func (p *ChangeEventProducer) FollowChanged(ctx context.Context, change *eventutil.FollowChange) error {
	return p.publish(ctx, p.TopicFollowEvent, change.TargetID, change.TargetType, change)
}

func (p *ChangeEventProducer) ActivityChanged(ctx context.Context, change *eventutil.ActivityChange) error {
	return p.publish(ctx, p.TopicActivityEvent, change.ActivityID, "activity", change)
}

// RequestNotification hands a triggering domain event to the
// notification pipeline.
func (p *ChangeEventProducer) RequestNotification(ctx context.Context, req *eventutil.NotificationRequest) error {
	m := nats.NewMsg(p.TopicNotification)
	m.Header.Set(jetstream.ActorID, strconv.FormatInt(req.ActorID, 10))
	var err error
	if m.Data, err = json.Marshal(req); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"event_type": req.EventType,
		"actor_id":   req.ActorID,
	}).Tracef("Producing to topic '%s'", p.TopicNotification)
	_, err = p.JetStream.PublishMsg(m, nats.Context(ctx))
	return err
}

func (p *ChangeEventProducer) publish(ctx context.Context, topic string, entityID int64, kind string, payload any) error {
	m := nats.NewMsg(topic)
	m.Header.Set(jetstream.EntityID, strconv.FormatInt(entityID, 10))
	m.Header.Set(jetstream.EntityKind, kind)
	var err error
	if m.Data, err = json.Marshal(payload); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"entity_id":   entityID,
		"entity_kind": kind,
	}).Tracef("Producing to topic '%s'", topic)
	_, err = p.JetStream.PublishMsg(m, nats.Context(ctx))
	return err
}
