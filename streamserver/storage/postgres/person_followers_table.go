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

const personFollowersSchema = `
-- One row per directed follow edge between two people.
CREATE TABLE IF NOT EXISTS streamserver_person_followers (
    follower_id BIGINT NOT NULL,
    followed_id BIGINT NOT NULL,
    PRIMARY KEY (follower_id, followed_id)
);

CREATE INDEX IF NOT EXISTS streamserver_person_followers_followed_idx ON streamserver_person_followers(followed_id);
`

const selectPersonFollowerIDsSQL = "" +
	"SELECT follower_id FROM streamserver_person_followers WHERE followed_id = $1 ORDER BY follower_id"

const selectPersonFollowingIDsSQL = "" +
	"SELECT followed_id FROM streamserver_person_followers WHERE follower_id = $1 ORDER BY followed_id"

const selectAllPersonFollowerPairsSQL = "" +
	"SELECT follower_id, followed_id FROM streamserver_person_followers"

const insertPersonFollowerSQL = "" +
	"INSERT INTO streamserver_person_followers(follower_id, followed_id) VALUES ($1, $2)" +
	" ON CONFLICT DO NOTHING"

const deletePersonFollowerSQL = "" +
	"DELETE FROM streamserver_person_followers WHERE follower_id = $1 AND followed_id = $2"

type personFollowersStatements struct {
	selectFollowerIDsStmt  *sql.Stmt
	selectFollowingIDsStmt *sql.Stmt
	selectAllPairsStmt     *sql.Stmt
	insertFollowerStmt     *sql.Stmt
	deleteFollowerStmt     *sql.Stmt
}

func NewPostgresPersonFollowersTable(db *sql.DB) (tables.PersonFollowers, error) {
	s := &personFollowersStatements{}
	_, err := db.Exec(personFollowersSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.selectFollowerIDsStmt, selectPersonFollowerIDsSQL},
		{&s.selectFollowingIDsStmt, selectPersonFollowingIDsSQL},
		{&s.selectAllPairsStmt, selectAllPersonFollowerPairsSQL},
		{&s.insertFollowerStmt, insertPersonFollowerSQL},
		{&s.deleteFollowerStmt, deletePersonFollowerSQL},
	}.Prepare(db)
}

func (s *personFollowersStatements) SelectFollowerIDs(ctx context.Context, followedID int64) ([]int64, error) {
	return queryIDs(ctx, s.selectFollowerIDsStmt, "selectPersonFollowerIDs", followedID)
}

func (s *personFollowersStatements) SelectFollowingIDs(ctx context.Context, followerID int64) ([]int64, error) {
	return queryIDs(ctx, s.selectFollowingIDsStmt, "selectPersonFollowingIDs", followerID)
}

func (s *personFollowersStatements) SelectAllFollowerPairs(ctx context.Context) ([][2]int64, error) {
	return queryIDPairs(ctx, s.selectAllPairsStmt, "selectAllPersonFollowerPairs")
}

func (s *personFollowersStatements) InsertFollower(ctx context.Context, txn *sql.Tx, followerID, followedID int64) error {
	_, err := sqlutil.TxStmt(txn, s.insertFollowerStmt).ExecContext(ctx, followerID, followedID)
	return err
}

func (s *personFollowersStatements) DeleteFollower(ctx context.Context, txn *sql.Tx, followerID, followedID int64) error {
	_, err := sqlutil.TxStmt(txn, s.deleteFollowerStmt).ExecContext(ctx, followerID, followedID)
	return err
}

// queryIDs runs a prepared statement returning a single BIGINT column.
func queryIDs(ctx context.Context, stmt *sql.Stmt, name string, args ...interface{}) ([]int64, error) {
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, name+": rows.close() failed")
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

// queryIDPairs runs a prepared statement returning two BIGINT columns.
func queryIDPairs(ctx context.Context, stmt *sql.Stmt, name string) ([][2]int64, error) {
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer sqlutil.CloseAndLogIfError(ctx, rows, name+": rows.close() failed")
	var pairs [][2]int64
	for rows.Next() {
		var a, b int64
		if err := rows.Scan(&a, &b); err != nil {
			return nil, err
		}
		pairs = append(pairs, [2]int64{a, b})
	}
	return pairs, rows.Err()
}
