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

// PostToPersonalStreamTranslator notifies the owner of the stream a
// post landed on.
type PostToPersonalStreamTranslator struct{}

func (t *PostToPersonalStreamTranslator) Translate(ctx context.Context, req *eventutil.NotificationRequest) (*api.NotificationBatch, error) {
	batch := api.NewNotificationBatch()
	if req.DestinationID != req.ActorID {
		batch.SetRecipients(api.PostToPersonalStream, req.DestinationID)
	}
	batch.SetDeferredProperty("actor", "person", req.ActorID)
	batch.SetDeferredProperty("activity", "activity", req.ActivityID)
	return batch, nil
}

// PostToGroupStreamTranslator notifies the coordinators of the group a
// post landed on, except the poster.
type PostToGroupStreamTranslator struct {
	Source EntitySource
}

func (t *PostToGroupStreamTranslator) Translate(ctx context.Context, req *eventutil.NotificationRequest) (*api.NotificationBatch, error) {
	coordinators, err := t.Source.GetGroupCoordinators(ctx, req.DestinationID)
	if err != nil {
		return nil, err
	}
	batch := api.NewNotificationBatch()
	recipients := without(coordinators, req.ActorID)
	if len(recipients) > 0 {
		batch.SetRecipients(api.PostToGroupStream, recipients...)
	}
	batch.SetDeferredProperty("actor", "person", req.ActorID)
	batch.SetDeferredProperty("group", "group", req.DestinationID)
	batch.SetDeferredProperty("activity", "activity", req.ActivityID)
	return batch, nil
}

// CommentTranslator notifies the commented post's author and everyone
// else who commented on it, each under their own notification type.
// The commenter never notifies themselves.
type CommentTranslator struct {
	Source EntitySource
}

func (t *CommentTranslator) Translate(ctx context.Context, req *eventutil.NotificationRequest) (*api.NotificationBatch, error) {
	post, err := t.Source.GetActivity(ctx, req.DestinationID)
	if err != nil {
		return nil, err
	}
	batch := api.NewNotificationBatch()
	if post.ActorPersonID != req.ActorID {
		batch.SetRecipients(api.CommentToPersonalPost, post.ActorPersonID)
	}
	commenters, err := t.Source.GetCommenterIDs(ctx, req.DestinationID)
	if err != nil {
		return nil, err
	}
	recipients := without(without(commenters, req.ActorID), post.ActorPersonID)
	if len(recipients) > 0 {
		batch.SetRecipients(api.CommentToCommentedPost, recipients...)
	}
	batch.SetDeferredProperty("actor", "person", req.ActorID)
	batch.SetDeferredProperty("activity", "activity", req.DestinationID)
	return batch, nil
}

// LikeTranslator notifies the liked activity's author.
type LikeTranslator struct {
	Source EntitySource
}

func (t *LikeTranslator) Translate(ctx context.Context, req *eventutil.NotificationRequest) (*api.NotificationBatch, error) {
	activity, err := t.Source.GetActivity(ctx, req.DestinationID)
	if err != nil {
		return nil, err
	}
	batch := api.NewNotificationBatch()
	if activity.ActorPersonID != req.ActorID {
		batch.SetRecipients(api.LikeActivity, activity.ActorPersonID)
	}
	batch.SetDeferredProperty("actor", "person", req.ActorID)
	batch.SetDeferredProperty("activity", "activity", req.DestinationID)
	return batch, nil
}
