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

package notifiers

import (
	"context"
	"fmt"
	"time"

	"github.com/orbitsocial/orbit/notifserver/api"
	"github.com/orbitsocial/orbit/notifserver/storage"
	"github.com/orbitsocial/orbit/notifserver/types"
	streamtypes "github.com/orbitsocial/orbit/streamserver/types"
)

// InAppNotifier persists a per-recipient notification row for the
// application to render, with read tracking.
type InAppNotifier struct {
	DB storage.Database
}

func (n *InAppNotifier) Channel() api.Channel {
	return api.ChannelInApp
}

func (n *InAppNotifier) Notify(ctx context.Context, notification *api.Notification) error {
	_, err := n.DB.CreateNotification(ctx, &types.InAppNotification{
		RecipientID:      notification.RecipientID,
		Type:             notification.Type,
		ActorID:          notification.ActorID,
		ActivityID:       notification.ActivityID,
		Message:          renderMessage(notification),
		URL:              notification.URL,
		CreatedTimeMilli: time.Now().UnixMilli(),
	})
	return err
}

// renderMessage produces the short display line for in-app and alert
// rows from the resolved batch properties.
func renderMessage(notification *api.Notification) string {
	actorName := "Someone"
	if actor, ok := notification.Properties["actor"].Value.(*streamtypes.PersonModelView); ok {
		actorName = actor.DisplayName
	}
	switch notification.Type {
	case api.FollowPerson:
		return fmt.Sprintf("%s is now following you", actorName)
	case api.FollowGroup:
		return fmt.Sprintf("%s is now following your group", actorName)
	case api.PostToPersonalStream:
		return fmt.Sprintf("%s posted to your stream", actorName)
	case api.PostToGroupStream:
		return fmt.Sprintf("%s posted to your group", actorName)
	case api.CommentToPersonalPost:
		return fmt.Sprintf("%s commented on your post", actorName)
	case api.CommentToCommentedPost:
		return fmt.Sprintf("%s commented on a post you commented on", actorName)
	case api.CommentToSavedPost:
		return fmt.Sprintf("%s commented on a post you saved", actorName)
	case api.LikeActivity:
		return fmt.Sprintf("%s liked your post", actorName)
	default:
		return fmt.Sprintf("%s sent you a notification", actorName)
	}
}
