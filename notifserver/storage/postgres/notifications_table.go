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

package postgres

import (
	"context"
	"database/sql"

	"github.com/orbitsocial/orbit/internal/sqlutil"
	"github.com/orbitsocial/orbit/notifserver/api"
	"github.com/orbitsocial/orbit/notifserver/storage/tables"
	"github.com/orbitsocial/orbit/notifserver/types"
)

const notificationsSchema = `
CREATE TABLE IF NOT EXISTS notifserver_notifications (
    id BIGSERIAL PRIMARY KEY,
    recipient_id BIGINT NOT NULL,
    type TEXT NOT NULL,
    actor_id BIGINT NOT NULL,
    activity_id BIGINT NOT NULL DEFAULT 0,
    message TEXT NOT NULL,
    url TEXT NOT NULL DEFAULT '',
    read BOOLEAN NOT NULL DEFAULT FALSE,
    created_time_milli BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS notifserver_notifications_recipient_idx ON notifserver_notifications(recipient_id, id DESC);
`

const insertNotificationSQL = "" +
	"INSERT INTO notifserver_notifications(recipient_id, type, actor_id, activity_id, message, url, read, created_time_milli)" +
	" VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7) RETURNING id"

const selectNotificationsByRecipientSQL = "" +
	"SELECT id, recipient_id, type, actor_id, activity_id, message, url, read, created_time_milli" +
	" FROM notifserver_notifications WHERE recipient_id = $1 ORDER BY id DESC LIMIT $2"

const selectUnreadNotificationCountSQL = "" +
	"SELECT COUNT(*) FROM notifserver_notifications WHERE recipient_id = $1 AND NOT read"

const updateReadUpToSQL = "" +
	"UPDATE notifserver_notifications SET read = TRUE WHERE recipient_id = $1 AND id <= $2 AND NOT read"

type notificationsStatements struct {
	insertNotificationStmt             *sql.Stmt
	selectNotificationsByRecipientStmt *sql.Stmt
	selectUnreadCountStmt              *sql.Stmt
	updateReadUpToStmt                 *sql.Stmt
}

func NewPostgresNotificationsTable(db *sql.DB) (tables.Notifications, error) {
	s := &notificationsStatements{}
	_, err := db.Exec(notificationsSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.insertNotificationStmt, insertNotificationSQL},
		{&s.selectNotificationsByRecipientStmt, selectNotificationsByRecipientSQL},
		{&s.selectUnreadCountStmt, selectUnreadNotificationCountSQL},
		{&s.updateReadUpToStmt, updateReadUpToSQL},
	}.Prepare(db)
}

func (s *notificationsStatements) InsertNotification(ctx context.Context, txn *sql.Tx, n *types.InAppNotification) (int64, error) {
	stmt := sqlutil.TxStmt(txn, s.insertNotificationStmt)
	err := stmt.QueryRowContext(
		ctx, n.RecipientID, string(n.Type), n.ActorID, n.ActivityID, n.Message, n.URL, n.CreatedTimeMilli,
	).Scan(&n.ID)
	return n.ID, err
}

func (s *notificationsStatements) SelectNotificationsByRecipient(ctx context.Context, txn *sql.Tx, recipientID int64, limit int) ([]types.InAppNotification, error) {
	rows, err := sqlutil.TxStmt(txn, s.selectNotificationsByRecipientStmt).QueryContext(ctx, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectNotificationsByRecipient: rows.close() failed")
	var notifications []types.InAppNotification
	for rows.Next() {
		var n types.InAppNotification
		var notificationType string
		if err := rows.Scan(
			&n.ID, &n.RecipientID, &notificationType, &n.ActorID, &n.ActivityID,
			&n.Message, &n.URL, &n.Read, &n.CreatedTimeMilli,
		); err != nil {
			return nil, err
		}
		n.Type = api.NotificationType(notificationType)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *notificationsStatements) SelectUnreadCount(ctx context.Context, txn *sql.Tx, recipientID int64) (count int64, err error) {
	err = sqlutil.TxStmt(txn, s.selectUnreadCountStmt).QueryRowContext(ctx, recipientID).Scan(&count)
	return
}

func (s *notificationsStatements) UpdateReadUpTo(ctx context.Context, txn *sql.Tx, recipientID, notificationID int64) error {
	_, err := sqlutil.TxStmt(txn, s.updateReadUpToStmt).ExecContext(ctx, recipientID, notificationID)
	return err
}
