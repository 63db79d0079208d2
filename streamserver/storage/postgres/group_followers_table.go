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
)

const groupFollowersSchema = `
CREATE TABLE IF NOT EXISTS streamserver_group_followers (
    person_id BIGINT NOT NULL,
    group_id BIGINT NOT NULL,
    PRIMARY KEY (person_id, group_id)
);

CREATE INDEX IF NOT EXISTS streamserver_group_followers_group_idx ON streamserver_group_followers(group_id);
`

const selectGroupFollowerIDsSQL = "" +
	"SELECT person_id FROM streamserver_group_followers WHERE group_id = $1 ORDER BY person_id"

const selectFollowedGroupIDsSQL = "" +
	"SELECT group_id FROM streamserver_group_followers WHERE person_id = $1 ORDER BY group_id"

const selectAllGroupFollowerPairsSQL = "" +
	"SELECT person_id, group_id FROM streamserver_group_followers"

const insertGroupFollowerSQL = "" +
	"INSERT INTO streamserver_group_followers(person_id, group_id) VALUES ($1, $2)" +
	" ON CONFLICT DO NOTHING"

const deleteGroupFollowerSQL = "" +
	"DELETE FROM streamserver_group_followers WHERE person_id = $1 AND group_id = $2"

type groupFollowersStatements struct {
	selectFollowerIDsStmt      *sql.Stmt
	selectFollowedGroupIDsStmt *sql.Stmt
	selectAllPairsStmt         *sql.Stmt
	insertFollowerStmt         *sql.Stmt
	deleteFollowerStmt         *sql.Stmt
}

func NewPostgresGroupFollowersTable(db *sql.DB) (tables.GroupFollowers, error) {
	s := &groupFollowersStatements{}
	_, err := db.Exec(groupFollowersSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.selectFollowerIDsStmt, selectGroupFollowerIDsSQL},
		{&s.selectFollowedGroupIDsStmt, selectFollowedGroupIDsSQL},
		{&s.selectAllPairsStmt, selectAllGroupFollowerPairsSQL},
		{&s.insertFollowerStmt, insertGroupFollowerSQL},
		{&s.deleteFollowerStmt, deleteGroupFollowerSQL},
	}.Prepare(db)
}

func (s *groupFollowersStatements) SelectFollowerIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return queryIDs(ctx, s.selectFollowerIDsStmt, "selectGroupFollowerIDs", groupID)
}

func (s *groupFollowersStatements) SelectFollowedGroupIDs(ctx context.Context, personID int64) ([]int64, error) {
	return queryIDs(ctx, s.selectFollowedGroupIDsStmt, "selectFollowedGroupIDs", personID)
}

func (s *groupFollowersStatements) SelectAllFollowerPairs(ctx context.Context) ([][2]int64, error) {
	return queryIDPairs(ctx, s.selectAllPairsStmt, "selectAllGroupFollowerPairs")
}

func (s *groupFollowersStatements) InsertFollower(ctx context.Context, txn *sql.Tx, personID, groupID int64) error {
	_, err := sqlutil.TxStmt(txn, s.insertFollowerStmt).ExecContext(ctx, personID, groupID)
	return err
}

func (s *groupFollowersStatements) DeleteFollower(ctx context.Context, txn *sql.Tx, personID, groupID int64) error {
	_, err := sqlutil.TxStmt(txn, s.deleteFollowerStmt).ExecContext(ctx, personID, groupID)
	return err
}
