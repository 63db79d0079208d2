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

package translators

import (
	"context"

	"github.com/orbitsocial/orbit/internal/eventutil"
	"github.com/orbitsocial/orbit/notifserver/api"
)

// FollowPersonTranslator notifies the followed person.
type FollowPersonTranslator struct{}

func (t *FollowPersonTranslator) Translate(ctx context.Context, req *eventutil.NotificationRequest) (*api.NotificationBatch, error) {
	batch := api.NewNotificationBatch()
	if req.DestinationID == req.ActorID {
		return batch, nil
	}
	batch.SetRecipients(api.FollowPerson, req.DestinationID)
	batch.SetDeferredProperty("actor", "person", req.ActorID)
	return batch, nil
}

// FollowGroupTranslator notifies every coordinator of the followed
// group except the new follower.
type FollowGroupTranslator struct {
	Source EntitySource
}

func (t *FollowGroupTranslator) Translate(ctx context.Context, req *eventutil.NotificationRequest) (*api.NotificationBatch, error) {
	coordinators, err := t.Source.GetGroupCoordinators(ctx, req.DestinationID)
	if err != nil {
		return nil, err
	}
	batch := api.NewNotificationBatch()
	recipients := without(coordinators, req.ActorID)
	if len(recipients) > 0 {
		batch.SetRecipients(api.FollowGroup, recipients...)
	}
	batch.SetDeferredProperty("actor", "person", req.ActorID)
	batch.SetDeferredProperty("group", "group", req.DestinationID)
	return batch, nil
}
