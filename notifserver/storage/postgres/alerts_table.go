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

const alertsSchema = `
CREATE TABLE IF NOT EXISTS notifserver_alerts (
    id BIGSERIAL PRIMARY KEY,
    recipient_id BIGINT NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    url TEXT NOT NULL DEFAULT '',
    read BOOLEAN NOT NULL DEFAULT FALSE,
    created_time_milli BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS notifserver_alerts_recipient_idx ON notifserver_alerts(recipient_id, read);
`

const insertAlertSQL = "" +
	"INSERT INTO notifserver_alerts(recipient_id, type, message, url, read, created_time_milli)" +
	" VALUES ($1, $2, $3, $4, FALSE, $5) RETURNING id"

const selectAlertsByRecipientSQL = "" +
	"SELECT id, recipient_id, type, message, url, read, created_time_milli" +
	" FROM notifserver_alerts WHERE recipient_id = $1 AND (NOT $2 OR NOT read) ORDER BY id DESC"

const selectUnreadAlertCountSQL = "" +
	"SELECT COUNT(*) FROM notifserver_alerts WHERE recipient_id = $1 AND NOT read"

const updateAlertsReadSQL = "" +
	"UPDATE notifserver_alerts SET read = TRUE WHERE recipient_id = $1 AND NOT read"

type alertsStatements struct {
	insertAlertStmt             *sql.Stmt
	selectAlertsByRecipientStmt *sql.Stmt
	selectUnreadAlertCountStmt  *sql.Stmt
	updateAlertsReadStmt        *sql.Stmt
}

func NewPostgresAlertsTable(db *sql.DB) (tables.Alerts, error) {
	s := &alertsStatements{}
	_, err := db.Exec(alertsSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.insertAlertStmt, insertAlertSQL},
		{&s.selectAlertsByRecipientStmt, selectAlertsByRecipientSQL},
		{&s.selectUnreadAlertCountStmt, selectUnreadAlertCountSQL},
		{&s.updateAlertsReadStmt, updateAlertsReadSQL},
	}.Prepare(db)
}

func (s *alertsStatements) InsertAlert(ctx context.Context, txn *sql.Tx, a *types.Alert) (int64, error) {
	stmt := sqlutil.TxStmt(txn, s.insertAlertStmt)
	err := stmt.QueryRowContext(
		ctx, a.RecipientID, string(a.Type), a.Message, a.URL, a.CreatedTimeMilli,
	).Scan(&a.ID)
	return a.ID, err
}

func (s *alertsStatements) SelectAlertsByRecipient(ctx context.Context, txn *sql.Tx, recipientID int64, unreadOnly bool) ([]types.Alert, error) {
	rows, err := sqlutil.TxStmt(txn, s.selectAlertsByRecipientStmt).QueryContext(ctx, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectAlertsByRecipient: rows.close() failed")
	var alerts []types.Alert
	for rows.Next() {
		var a types.Alert
		var alertType string
		if err := rows.Scan(
			&a.ID, &a.RecipientID, &alertType, &a.Message, &a.URL, &a.Read, &a.CreatedTimeMilli,
		); err != nil {
			return nil, err
		}
		a.Type = api.NotificationType(alertType)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *alertsStatements) SelectUnreadAlertCount(ctx context.Context, txn *sql.Tx, recipientID int64) (count int64, err error) {
	err = sqlutil.TxStmt(txn, s.selectUnreadAlertCountStmt).QueryRowContext(ctx, recipientID).Scan(&count)
	return
}

func (s *alertsStatements) UpdateAlertsRead(ctx context.Context, txn *sql.Tx, recipientID int64) error {
	_, err := sqlutil.TxStmt(txn, s.updateAlertsReadStmt).ExecContext(ctx, recipientID)
	return err
}
