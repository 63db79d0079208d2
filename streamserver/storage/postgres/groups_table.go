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

const groupsSchema = `
CREATE TABLE IF NOT EXISTS streamserver_groups (
    id BIGSERIAL PRIMARY KEY,
    -- Short names are immutable once assigned; the short-name lookup
    -- cache entry is never invalidated on update because of this.
    short_name TEXT NOT NULL,
    name TEXT NOT NULL,
    parent_organization_id BIGINT NOT NULL,
    pending BOOLEAN NOT NULL DEFAULT FALSE,
    public BOOLEAN NOT NULL DEFAULT TRUE,
    stream_id BIGINT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS streamserver_groups_short_name_idx ON streamserver_groups(short_name);
`

// The model view carries the parent organization's short name rather
// than its id, hence the join.
const selectAllGroupsSQL = "" +
	"SELECT g.id, g.short_name, g.name, o.short_name, g.pending, g.public, g.stream_id" +
	" FROM streamserver_groups AS g" +
	" JOIN streamserver_organizations AS o ON o.id = g.parent_organization_id"

const selectGroupsByIDsSQL = "" +
	"SELECT g.id, g.short_name, g.name, o.short_name, g.pending, g.public, g.stream_id" +
	" FROM streamserver_groups AS g" +
	" JOIN streamserver_organizations AS o ON o.id = g.parent_organization_id" +
	" WHERE g.id = ANY($1)"

const insertGroupSQL = "" +
	"INSERT INTO streamserver_groups(short_name, name, parent_organization_id, pending, public, stream_id)" +
	" VALUES ($1, $2, $3, $4, $5, $6) RETURNING id"

const updateGroupNameSQL = "" +
	"UPDATE streamserver_groups SET name = $1 WHERE id = $2"

type groupsStatements struct {
	selectAllGroupsStmt  *sql.Stmt
	selectGroupsByIDsStmt *sql.Stmt
	insertGroupStmt      *sql.Stmt
	updateGroupNameStmt  *sql.Stmt
}

func NewPostgresGroupsTable(db *sql.DB) (tables.Groups, error) {
	s := &groupsStatements{}
	_, err := db.Exec(groupsSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.selectAllGroupsStmt, selectAllGroupsSQL},
		{&s.selectGroupsByIDsStmt, selectGroupsByIDsSQL},
		{&s.insertGroupStmt, insertGroupSQL},
		{&s.updateGroupNameStmt, updateGroupNameSQL},
	}.Prepare(db)
}

func (s *groupsStatements) SelectAllGroups(ctx context.Context) ([]types.DomainGroupModelView, error) {
	rows, err := s.selectAllGroupsStmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectAllGroups: rows.close() failed")
	return scanGroups(rows)
}

func (s *groupsStatements) SelectGroupsByIDs(ctx context.Context, ids []int64) ([]types.DomainGroupModelView, error) {
	rows, err := s.selectGroupsByIDsStmt.QueryContext(ctx, pq.Int64Array(ids))
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectGroupsByIDs: rows.close() failed")
	return scanGroups(rows)
}

func (s *groupsStatements) InsertGroup(ctx context.Context, txn *sql.Tx, g *types.DomainGroupModelView, parentOrgID int64) (int64, error) {
	stmt := sqlutil.TxStmt(txn, s.insertGroupStmt)
	err := stmt.QueryRowContext(
		ctx, g.ShortName, g.Name, parentOrgID, g.Pending, g.Public, g.StreamID,
	).Scan(&g.ID)
	return g.ID, err
}

func (s *groupsStatements) UpdateGroupName(ctx context.Context, txn *sql.Tx, groupID int64, name string) error {
	stmt := sqlutil.TxStmt(txn, s.updateGroupNameStmt)
	_, err := stmt.ExecContext(ctx, name, groupID)
	return err
}

func scanGroups(rows *sql.Rows) ([]types.DomainGroupModelView, error) {
	var groups []types.DomainGroupModelView
	for rows.Next() {
		var g types.DomainGroupModelView
		if err := rows.Scan(
			&g.ID, &g.ShortName, &g.Name, &g.ParentOrganizationShortName,
			&g.Pending, &g.Public, &g.StreamID,
		); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
