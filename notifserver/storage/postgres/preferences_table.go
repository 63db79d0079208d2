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

	"github.com/lib/pq"

	"github.com/orbitsocial/orbit/internal/sqlutil"
	"github.com/orbitsocial/orbit/notifserver/api"
	"github.com/orbitsocial/orbit/notifserver/storage/tables"
)

const preferencesSchema = `
CREATE TABLE IF NOT EXISTS notifserver_preferences (
    person_id BIGINT NOT NULL,
    type TEXT NOT NULL,
    channel TEXT NOT NULL,
    suppressed BOOLEAN NOT NULL DEFAULT FALSE,
    CONSTRAINT notifserver_preferences_unique UNIQUE (person_id, type, channel)
);`

const upsertPreferenceSQL = "" +
	"INSERT INTO notifserver_preferences(person_id, type, channel, suppressed)" +
	" VALUES ($1, $2, $3, $4)" +
	" ON CONFLICT ON CONSTRAINT notifserver_preferences_unique" +
	" DO UPDATE SET suppressed = $4"

const selectSuppressedChannelsSQL = "" +
	"SELECT channel FROM notifserver_preferences" +
	" WHERE person_id = $1 AND type = $2 AND suppressed"

const selectSuppressedRecipientsSQL = "" +
	"SELECT person_id FROM notifserver_preferences" +
	" WHERE person_id = ANY($1) AND type = $2 AND channel = $3 AND suppressed"

type preferencesStatements struct {
	upsertPreferenceStmt           *sql.Stmt
	selectSuppressedChannelsStmt   *sql.Stmt
	selectSuppressedRecipientsStmt *sql.Stmt
}

func NewPostgresPreferencesTable(db *sql.DB) (tables.Preferences, error) {
	s := &preferencesStatements{}
	_, err := db.Exec(preferencesSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.upsertPreferenceStmt, upsertPreferenceSQL},
		{&s.selectSuppressedChannelsStmt, selectSuppressedChannelsSQL},
		{&s.selectSuppressedRecipientsStmt, selectSuppressedRecipientsSQL},
	}.Prepare(db)
}

func (s *preferencesStatements) UpsertPreference(ctx context.Context, txn *sql.Tx, personID int64, notificationType api.NotificationType, channel api.Channel, suppressed bool) error {
	_, err := sqlutil.TxStmt(txn, s.upsertPreferenceStmt).ExecContext(
		ctx, personID, string(notificationType), string(channel), suppressed,
	)
	return err
}

func (s *preferencesStatements) SelectSuppressedChannels(ctx context.Context, txn *sql.Tx, personID int64, notificationType api.NotificationType) ([]api.Channel, error) {
	rows, err := sqlutil.TxStmt(txn, s.selectSuppressedChannelsStmt).QueryContext(ctx, personID, string(notificationType))
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectSuppressedChannels: rows.close() failed")
	var channels []api.Channel
	for rows.Next() {
		var channel string
		if err := rows.Scan(&channel); err != nil {
			return nil, err
		}
		channels = append(channels, api.Channel(channel))
	}
	return channels, rows.Err()
}

func (s *preferencesStatements) SelectSuppressedRecipients(ctx context.Context, txn *sql.Tx, personIDs []int64, notificationType api.NotificationType, channel api.Channel) ([]int64, error) {
	rows, err := sqlutil.TxStmt(txn, s.selectSuppressedRecipientsStmt).QueryContext(
		ctx, pq.Int64Array(personIDs), string(notificationType), string(channel),
	)
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectSuppressedRecipients: rows.close() failed")
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
