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

const peopleSchema = `
-- Stores the canonical person records behind the PersonModelView cache.
CREATE TABLE IF NOT EXISTS streamserver_people (
    id BIGSERIAL PRIMARY KEY,
    account_id TEXT NOT NULL,
    open_social_id TEXT NOT NULL,
    display_name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    avatar_id TEXT NOT NULL DEFAULT '',
    parent_organization_id BIGINT NOT NULL,
    stream_id BIGINT NOT NULL,
    followers_count INTEGER NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS streamserver_people_account_id_idx ON streamserver_people(account_id);
CREATE UNIQUE INDEX IF NOT EXISTS streamserver_people_open_social_id_idx ON streamserver_people(open_social_id);
`

const selectAllPeopleSQL = "" +
	"SELECT id, account_id, open_social_id, display_name, email, avatar_id, parent_organization_id, stream_id, followers_count" +
	" FROM streamserver_people"

const selectPeopleByIDsSQL = "" +
	"SELECT id, account_id, open_social_id, display_name, email, avatar_id, parent_organization_id, stream_id, followers_count" +
	" FROM streamserver_people WHERE id = ANY($1)"

const insertPersonSQL = "" +
	"INSERT INTO streamserver_people(account_id, open_social_id, display_name, email, avatar_id, parent_organization_id, stream_id)" +
	" VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id"

const updatePersonSQL = "" +
	"UPDATE streamserver_people SET display_name = $1, email = $2, avatar_id = $3, parent_organization_id = $4" +
	" WHERE id = $5"

type peopleStatements struct {
	selectAllPeopleStml   *sql.Stmt
	selectPeopleByIDsStmt *sql.Stmt
	insertPersonStmt      *sql.Stmt
	updatePersonStmt      *sql.Stmt
}

func NewPostgresPeopleTable(db *sql.DB) (tables.People, error) {
	s := &peopleStatements{}
	_, err := db.Exec(peopleSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.selectAllPeopleStml, selectAllPeopleSQL},
		{&s.selectPeopleByIDsStmt, selectPeopleByIDsSQL},
		{&s.insertPersonStmt, insertPersonSQL},
		{&s.updatePersonStmt, updatePersonSQL},
	}.Prepare(db)
}

func (s *peopleStatements) SelectAllPeople(ctx context.Context) ([]types.PersonModelView, error) {
	rows, err := s.selectAllPeopleStml.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectAllPeople: rows.close() failed")
	return scanPeople(rows)
}

func (s *peopleStatements) SelectPeopleByIDs(ctx context.Context, ids []int64) ([]types.PersonModelView, error) {
	rows, err := s.selectPeopleByIDsStmt.QueryContext(ctx, pq.Int64Array(ids))
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, "selectPeopleByIDs: rows.close() failed")
	return scanPeople(rows)
}

func (s *peopleStatements) InsertPerson(ctx context.Context, txn *sql.Tx, p *types.PersonModelView) (int64, error) {
	stmt := sqlutil.TxStmt(txn, s.insertPersonStmt)
	err := stmt.QueryRowContext(
		ctx, p.AccountID, p.OpenSocialID, p.DisplayName, p.Email, p.AvatarID,
		p.ParentOrganizationID, p.StreamID,
	).Scan(&p.ID)
	return p.ID, err
}

func (s *peopleStatements) UpdatePerson(ctx context.Context, txn *sql.Tx, p *types.PersonModelView) error {
	stmt := sqlutil.TxStmt(txn, s.updatePersonStmt)
	_, err := stmt.ExecContext(ctx, p.DisplayName, p.Email, p.AvatarID, p.ParentOrganizationID, p.ID)
	return err
}

func scanPeople(rows *sql.Rows) ([]types.PersonModelView, error) {
	var people []types.PersonModelView
	for rows.Next() {
		var p types.PersonModelView
		if err := rows.Scan(
			&p.ID, &p.AccountID, &p.OpenSocialID, &p.DisplayName, &p.Email, &p.AvatarID,
			&p.ParentOrganizationID, &p.StreamID, &p.FollowersCount,
		); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}
