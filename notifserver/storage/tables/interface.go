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

package tables

import (
	"context"
	"database/sql"

	"github.com/orbitsocial/orbit/notifserver/api"
	"github.com/orbitsocial/orbit/notifserver/types"
)

type Notifications interface {
	InsertNotification(ctx context.Context, txn *sql.Tx, n *types.InAppNotification) (int64, error)
	SelectNotificationsByRecipient(ctx context.Context, txn *sql.Tx, recipientID int64, limit int) ([]types.InAppNotification, error)
	SelectUnreadCount(ctx context.Context, txn *sql.Tx, recipientID int64) (int64, error)
	UpdateReadUpTo(ctx context.Context, txn *sql.Tx, recipientID, notificationID int64) error
}

type Alerts interface {
	InsertAlert(ctx context.Context, txn *sql.Tx, a *types.Alert) (int64, error)
	SelectAlertsByRecipient(ctx context.Context, txn *sql.Tx, recipientID int64, unreadOnly bool) ([]types.Alert, error)
	SelectUnreadAlertCount(ctx context.Context, txn *sql.Tx, recipientID int64) (int64, error)
	UpdateAlertsRead(ctx context.Context, txn *sql.Tx, recipientID int64) error
}

type Preferences interface {
	UpsertPreference(ctx context.Context, txn *sql.Tx, personID int64, notificationType api.NotificationType, channel api.Channel, suppressed bool) error
	SelectSuppressedChannels(ctx context.Context, txn *sql.Tx, personID int64, notificationType api.NotificationType) ([]api.Channel, error)
	SelectSuppressedRecipients(ctx context.Context, txn *sql.Tx, personIDs []int64, notificationType api.NotificationType, channel api.Channel) ([]int64, error)
}
