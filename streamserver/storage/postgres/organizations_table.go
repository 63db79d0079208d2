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

const organizationsSchema = `
-- The root organization has parent_organization_id = 0.
CREATE TABLE IF NOT EXISTS streamserver_organizations (
    id BIGSERIAL PRIMARY KEY,
    short_name TEXT NOT NULL,
    name TEXT NOT NULL,
    parent_organization_id BIGINT NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS streamserver_organizations_short_name_idx ON streamserver_organizations(short_name);
CREATE INDEX IF NOT EXISTS streamserver_organizations_parent_idx ON streamserver_organizations(parent_organization_id);
`

const selectAllOrganizationsSQL = "" +
	"SELECT id, short_name, name, parent_organization_id FROM streamserver_organizations"

const selectOrganizationsByIDsSQL = "" +
	"SELECT id, short_name, name, parent_organization_id FROM streamserver_organizations WHERE id = ANY($1)"

const insertOrganizationSQL = "" +
	"INSERT INTO streamserver_organizations(short_name, name, parent_organization_id)" +
	" VALUES ($1, $2, $3) RETURNING id"

const updateOrganizationParentSQL = "" +
	"UPDATE streamserver_organizations SET parent_organization_id = $1 WHERE id = $2"

type organizationsStatements struct {
	selectAllOrganizationsStmt   *sql.Stmt
	selectOrganizationsByIDsStmt *sql.Stmt
	insertOrganizationStmt       *sql.Stmt
	updateOrganizationParentStmt *sql.Stmt
}

func NewPostgresOrganizationsTable(db *sql.DB) (tables.Organizations, error) {
	s := &organizationsStatements{}
	_, err := db.Exec(organizationsSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.selectAllOrganizationsStmt, selectAllOrganizationsSQL},
		{&s.selectOrganizationsByIDsStmt, selectOrganizationsByIDsSQL},
		{&s.insertOrganizationStmt, insertOrganizationSQL},
		{&s.updateOrganizationParentStmt, updateOrganizationParentSQL},
	}.Prepare(db)
}

func (s *organizationsStatements) SelectAllOrganizations(ctx context.Context) ([]types.OrganizationModelView, error) {
	rows, err := s.selectAllOrganizationsStmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectAllOrganizations: rows.close() failed")
	return scanOrganizations(rows)
}

func (s *organizationsStatements) SelectOrganizationsByIDs(ctx context.Context, ids []int64) ([]types.OrganizationModelView, error) {
	rows, err := s.selectOrganizationsByIDsStmt.QueryContext(ctx, pq.Int64Array(ids))
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectOrganizationsByIDs: rows.close() failed")
	return scanOrganizations(rows)
}

func (s *organizationsStatements) InsertOrganization(ctx context.Context, txn *sql.Tx, o *types.OrganizationModelView) (int64, error) {
	stmt := sqlutil.TxStmt(txn, s.insertOrganizationStmt)
	err := stmt.QueryRowContext(ctx, o.ShortName, o.Name, o.ParentOrganizationID).Scan(&o.ID)
	return o.ID, err
}

func (s *organizationsStatements) UpdateOrganizationParent(ctx context.Context, txn *sql.Tx, orgID, newParentID int64) error {
	stmt := sqlutil.TxStmt(txn, s.updateOrganizationParentStmt)
	_, err := stmt.ExecContext(ctx, newParentID, orgID)
	return err
}

func scanOrganizations(rows *sql.Rows) ([]types.OrganizationModelView, error) {
	var orgs []types.OrganizationModelView
	for rows.Next() {
		var o types.OrganizationModelView
		if err := rows.Scan(&o.ID, &o.ShortName, &o.Name, &o.ParentOrganizationID); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}
