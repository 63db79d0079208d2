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

// UserActionProducer enqueues follow-up user action requests for the
// task infrastructure. This component only constructs and publishes
// the request; it never executes one.
type UserActionProducer struct {
	JetStream nats.JetStreamContext
	Topic     string
}

func (p *UserActionProducer) RequestUserAction(ctx context.Context, req *eventutil.UserActionRequest) error {
	m := nats.NewMsg(p.Topic)
	m.Header.Set(jetstream.ActorID, strconv.FormatInt(req.PersonID, 10))
	var err error
	if m.Data, err = json.Marshal(req); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"action_key": req.ActionKey,
		"person_id":  req.PersonID,
	}).Tracef("Producing to topic '%s'", p.Topic)
	_, err = p.JetStream.PublishMsg(m, nats.Context(ctx))
	return err
}
