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
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/orbitsocial/orbit/internal/eventutil"
	"github.com/orbitsocial/orbit/notifserver/internal"
	"github.com/orbitsocial/orbit/setup/config"
	"github.com/orbitsocial/orbit/setup/jetstream"
	"github.com/orbitsocial/orbit/setup/process"
)

// RequestNotificationConsumer feeds notification requests into the
// pipeline.
type RequestNotificationConsumer struct {
	ctx       context.Context
	jetstream nats.JetStreamContext
	durable   string
	topic     string
	pipeline  *internal.Pipeline
}

func NewRequestNotificationConsumer(
	process *process.ProcessContext,
	cfg *config.NotifServer,
	js nats.JetStreamContext,
	pipeline *internal.Pipeline,
) *RequestNotificationConsumer {
	return &RequestNotificationConsumer{
		ctx:       process.Context(),
		jetstream: js,
		durable:   cfg.Global.JetStream.Durable("NotifServerRequestConsumer"),
		topic:     cfg.Global.JetStream.TopicFor(jetstream.RequestNotification),
		pipeline:  pipeline,
	}
}

func (s *RequestNotificationConsumer) Start() error {
	return jetstream.JetStreamConsumer(
		s.ctx, s.jetstream, s.topic, s.durable, 1, s.onMessage,
		nats.DeliverAll(), nats.ManualAck(),
	)
}

func (s *RequestNotificationConsumer) onMessage(ctx context.Context, msgs []*nats.Msg) bool {
	msg := msgs[0] // batch size is 1
	var req eventutil.NotificationRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.WithError(err).Error("notifserver request consumer: message parse failure")
		return true
	}

	log.WithFields(log.Fields{
		"event_type": req.EventType,
		"actor_id":   req.ActorID,
	}).Tracef("Received notification request")

	if err := s.pipeline.Process(ctx, &req); err != nil {
		log.WithError(err).WithField("event_type", req.EventType).Error("notifserver request consumer: pipeline failure")
		sentry.CaptureException(err)
		// A request without a translator can never succeed, so it is
		// acknowledged rather than redelivered.
		return errors.Is(err, internal.ErrNoTranslator)
	}
	return true
}
