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

package shared

import (
	"context"
	"database/sql"

	"github.com/orbitsocial/orbit/internal/sqlutil"
	"github.com/orbitsocial/orbit/notifserver/api"
	"github.com/orbitsocial/orbit/notifserver/storage/tables"
	"github.com/orbitsocial/orbit/notifserver/types"
)

type Database struct {
	DB     *sql.DB
	Writer sqlutil.Writer

	Notifications tables.Notifications
	Alerts        tables.Alerts
	Preferences   tables.Preferences
}

func (d *Database) CreateNotification(ctx context.Context, n *types.InAppNotification) (id int64, err error) {
	err = d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		id, err = d.Notifications.InsertNotification(ctx, txn, n)
		return err
	})
	return
}

func (d *Database) GetNotificationsByRecipient(ctx context.Context, recipientID int64, limit int) ([]types.InAppNotification, error) {
	return d.Notifications.SelectNotificationsByRecipient(ctx, nil, recipientID, limit)
}

func (d *Database) GetUnreadNotificationCount(ctx context.Context, recipientID int64) (int64, error) {
	return d.Notifications.SelectUnreadCount(ctx, nil, recipientID)
}

func (d *Database) MarkNotificationsReadUpTo(ctx context.Context, recipientID, notificationID int64) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.Notifications.UpdateReadUpTo(ctx, txn, recipientID, notificationID)
	})
}

func (d *Database) CreateAlert(ctx context.Context, a *types.Alert) (id int64, err error) {
	err = d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		id, err = d.Alerts.InsertAlert(ctx, txn, a)
		return err
	})
	return
}

func (d *Database) GetAlertsByRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]types.Alert, error) {
	return d.Alerts.SelectAlertsByRecipient(ctx, nil, recipientID, unreadOnly)
}

func (d *Database) GetUnreadAlertCount(ctx context.Context, recipientID int64) (int64, error) {
	return d.Alerts.SelectUnreadAlertCount(ctx, nil, recipientID)
}

func (d *Database) MarkAlertsRead(ctx context.Context, recipientID int64) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.Alerts.UpdateAlertsRead(ctx, txn, recipientID)
	})
}

func (d *Database) SetPreference(ctx context.Context, personID int64, notificationType api.NotificationType, channel api.Channel, suppressed bool) error {
	return d.Writer.Do(d.DB, nil, func(txn *sql.Tx) error {
		return d.Preferences.UpsertPreference(ctx, txn, personID, notificationType, channel, suppressed)
	})
}

func (d *Database) GetSuppressedChannels(ctx context.Context, personID int64, notificationType api.NotificationType) ([]api.Channel, error) {
	return d.Preferences.SelectSuppressedChannels(ctx, nil, personID, notificationType)
}

func (d *Database) GetSuppressedRecipients(ctx context.Context, personIDs []int64, notificationType api.NotificationType, channel api.Channel) ([]int64, error) {
	return d.Preferences.SelectSuppressedRecipients(ctx, nil, personIDs, notificationType, channel)
}
