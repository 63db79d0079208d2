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
	"time"

	"github.com/orbitsocial/orbit/internal/caching"
	"github.com/orbitsocial/orbit/notifserver/api"
	"github.com/orbitsocial/orbit/notifserver/storage"
	"github.com/orbitsocial/orbit/notifserver/types"
)

// AlertNotifier persists an application alert and keeps the cached
// per-person unread alert count in step with the table.
type AlertNotifier struct {
	DB    storage.Database
	Cache caching.Cache
}

func (n *AlertNotifier) Channel() api.Channel {
	return api.ChannelAlert
}

func (n *AlertNotifier) Notify(ctx context.Context, notification *api.Notification) error {
	if _, err := n.DB.CreateAlert(ctx, &types.Alert{
		RecipientID:      notification.RecipientID,
		Type:             notification.Type,
		Message:          renderMessage(notification),
		URL:              notification.URL,
		CreatedTimeMilli: time.Now().UnixMilli(),
	}); err != nil {
		return err
	}
	return n.refreshUnreadCount(ctx, notification.RecipientID)
}

// MarkRead clears a person's alerts and resets the cached count.
func (n *AlertNotifier) MarkRead(ctx context.Context, personID int64) error {
	if err := n.DB.MarkAlertsRead(ctx, personID); err != nil {
		return err
	}
	return caching.SetJSON(ctx, n.Cache, caching.UnreadAlertCountByPerson.Key(personID), int64(0))
}

// UnreadCount reads the cached unread alert count, falling back to the
// table on a miss.
func (n *AlertNotifier) UnreadCount(ctx context.Context, personID int64) (int64, error) {
	return caching.GetOrCompute(ctx, n.Cache, caching.UnreadAlertCountByPerson.Key(personID), func(ctx context.Context) (int64, error) {
		return n.DB.GetUnreadAlertCount(ctx, personID)
	})
}

func (n *AlertNotifier) refreshUnreadCount(ctx context.Context, personID int64) error {
	count, err := n.DB.GetUnreadAlertCount(ctx, personID)
	if err != nil {
		return err
	}
	return caching.SetJSON(ctx, n.Cache, caching.UnreadAlertCountByPerson.Key(personID), count)
}
