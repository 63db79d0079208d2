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
	"github.com/orbitsocial/orbit/streamserver/storage/tables"
	"github.com/orbitsocial/orbit/streamserver/types"
)

const compositeStreamsSchema = `
CREATE TABLE IF NOT EXISTS streamserver_composite_streams (
    id BIGSERIAL PRIMARY KEY,
    owner_person_id BIGINT NOT NULL,
    name TEXT NOT NULL,
    scope_type TEXT NOT NULL,
    scope_id BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS streamserver_composite_streams_owner_idx ON streamserver_composite_streams(owner_person_id);
CREATE INDEX IF NOT EXISTS streamserver_composite_streams_scope_idx ON streamserver_composite_streams(scope_type, scope_id);
`

const selectAllCompositeStreamsSQL = "" +
	"SELECT id, owner_person_id, name, scope_type, scope_id FROM streamserver_composite_streams"

const selectCompositeStreamsByOwnerSQL = "" +
	"SELECT id, owner_person_id, name, scope_type, scope_id FROM streamserver_composite_streams" +
	" WHERE owner_person_id = $1 ORDER BY id"

const selectCompositeStreamIDsByScopeSQL = "" +
	"SELECT id FROM streamserver_composite_streams WHERE scope_type = $1 AND scope_id = $2"

type compositeStreamsStatements struct {
	selectAllCompositeStreamsStmt      *sql.Stmt
	selectCompositeStreamsByOwnerStmt  *sql.Stmt
	selectCompositeStreamIDsByScopeStmt *sql.Stmt
}

func NewPostgresCompositeStreamsTable(db *sql.DB) (tables.CompositeStreams, error) {
	s := &compositeStreamsStatements{}
	_, err := db.Exec(compositeStreamsSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.selectAllCompositeStreamsStmt, selectAllCompositeStreamsSQL},
		{&s.selectCompositeStreamsByOwnerStmt, selectCompositeStreamsByOwnerSQL},
		{&s.selectCompositeStreamIDsByScopeStmt, selectCompositeStreamIDsByScopeSQL},
	}.Prepare(db)
}

func (s *compositeStreamsStatements) SelectAllCompositeStreams(ctx context.Context) ([]types.CompositeStream, error) {
	rows, err := s.selectAllCompositeStreamsStmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectAllCompositeStreams: rows.close() failed")
	return scanCompositeStreams(rows)
}

func (s *compositeStreamsStatements) SelectCompositeStreamsByOwner(ctx context.Context, ownerPersonID int64) ([]types.CompositeStream, error) {
	rows, err := s.selectCompositeStreamsByOwnerStmt.QueryContext(ctx, ownerPersonID)
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectCompositeStreamsByOwner: rows.close() failed")
	return scanCompositeStreams(rows)
}

func (s *compositeStreamsStatements) SelectCompositeStreamIDsByScope(ctx context.Context, scopeType types.ScopeType, scopeID int64) ([]int64, error) {
	return queryIDs(ctx, s.selectCompositeStreamIDsByScopeStmt, "selectCompositeStreamIDsByScope", string(scopeType), scopeID)
}

func scanCompositeStreams(rows *sql.Rows) ([]types.CompositeStream, error) {
	var streams []types.CompositeStream
	for rows.Next() {
		var cs types.CompositeStream
		var scopeType string
		if err := rows.Scan(&cs.ID, &cs.OwnerPersonID, &cs.Name, &scopeType, &cs.ScopeID); err != nil {
			return nil, err
		}
		cs.ScopeType = types.ScopeType(scopeType)
		streams = append(streams, cs)
	}
	return streams, rows.Err()
}
