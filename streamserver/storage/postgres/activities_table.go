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
	"github.com/orbitsocial/orbit/streamserver/storage/tables"
	"github.com/orbitsocial/orbit/streamserver/types"
)

const activitiesSchema = `
CREATE TABLE IF NOT EXISTS streamserver_activities (
    id BIGSERIAL PRIMARY KEY,
    actor_person_id BIGINT NOT NULL,
    stream_scope_id BIGINT NOT NULL,
    verb TEXT NOT NULL,
    content TEXT NOT NULL,
    posted_time_milli BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS streamserver_activities_scope_posted_idx ON streamserver_activities(stream_scope_id, posted_time_milli DESC);
`

const selectActivitiesByIDsSQL = "" +
	"SELECT id, actor_person_id, stream_scope_id, verb, content, posted_time_milli" +
	" FROM streamserver_activities WHERE id = ANY($1)"

// Newest-first, bounded: this feeds the cached per-stream id lists.
const selectRecentActivityIDsByStreamScopeSQL = "" +
	"SELECT id FROM streamserver_activities WHERE stream_scope_id = $1" +
	" ORDER BY posted_time_milli DESC, id DESC LIMIT $2"

const insertActivitySQL = "" +
	"INSERT INTO streamserver_activities(actor_person_id, stream_scope_id, verb, content, posted_time_milli)" +
	" VALUES ($1, $2, $3, $4, $5) RETURNING id"

const deleteActivitySQL = "" +
	"DELETE FROM streamserver_activities WHERE id = $1"

type activitiesStatements struct {
	selectActivitiesByIDsStmt                *sql.Stmt
	selectRecentActivityIDsByStreamScopeStmt *sql.Stmt
	insertActivityStmt                       *sql.Stmt
	deleteActivityStmt                       *sql.Stmt
}

func NewPostgresActivitiesTable(db *sql.DB) (tables.Activities, error) {
	s := &activitiesStatements{}
	_, err := db.Exec(activitiesSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.selectActivitiesByIDsStmt, selectActivitiesByIDsSQL},
		{&s.selectRecentActivityIDsByStreamScopeStmt, selectRecentActivityIDsByStreamScopeSQL},
		{&s.insertActivityStmt, insertActivitySQL},
		{&s.deleteActivityStmt, deleteActivitySQL},
	}.Prepare(db)
}

func (s *activitiesStatements) SelectActivitiesByIDs(ctx context.Context, ids []int64) ([]types.ActivityModelView, error) {
	rows, err := s.selectActivitiesByIDsStmt.QueryContext(ctx, pq.Int64Array(ids))
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectActivitiesByIDs: rows.close() failed")
	var activities []types.ActivityModelView
	for rows.Next() {
		var a types.ActivityModelView
		if err := rows.Scan(
			&a.ID, &a.ActorPersonID, &a.StreamScopeID, &a.Verb, &a.Content, &a.PostedTimeMilli,
		); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *activitiesStatements) SelectRecentActivityIDsByStreamScope(ctx context.Context, streamScopeID int64, limit int) ([]int64, error) {
	return queryIDs(ctx, s.selectRecentActivityIDsByStreamScopeStmt, "selectRecentActivityIDsByStreamScope", streamScopeID, limit)
}

func (s *activitiesStatements) InsertActivity(ctx context.Context, txn *sql.Tx, a *types.ActivityModelView) (int64, error) {
	stmt := sqlutil.TxStmt(txn, s.insertActivityStmt)
	err := stmt.QueryRowContext(
		ctx, a.ActorPersonID, a.StreamScopeID, a.Verb, a.Content, a.PostedTimeMilli,
	).Scan(&a.ID)
	return a.ID, err
}

func (s *activitiesStatements) DeleteActivity(ctx context.Context, txn *sql.Tx, activityID int64) error {
	_, err := sqlutil.TxStmt(txn, s.deleteActivityStmt).ExecContext(ctx, activityID)
	return err
}
