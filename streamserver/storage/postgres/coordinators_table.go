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

const coordinatorsSchema = `
-- Membership of a person in a group's coordinator set.
CREATE TABLE IF NOT EXISTS streamserver_group_coordinators (
    person_id BIGINT NOT NULL,
    group_id BIGINT NOT NULL,
    PRIMARY KEY (person_id, group_id)
);

CREATE INDEX IF NOT EXISTS streamserver_group_coordinators_group_idx ON streamserver_group_coordinators(group_id);
`

const selectCoordinatorIDsByGroupSQL = "" +
	"SELECT person_id FROM streamserver_group_coordinators WHERE group_id = $1 ORDER BY person_id"

const selectAllCoordinatorPairsSQL = "" +
	"SELECT person_id, group_id FROM streamserver_group_coordinators"

const selectGroupIDsByCoordinatorSQL = "" +
	"SELECT group_id FROM streamserver_group_coordinators WHERE person_id = $1 ORDER BY group_id"

type coordinatorsStatements struct {
	selectCoordinatorIDsByGroupStmt *sql.Stmt
	selectAllCoordinatorPairsStmt   *sql.Stmt
	selectGroupIDsByCoordinatorStmt *sql.Stmt
}

func NewPostgresCoordinatorsTable(db *sql.DB) (tables.Coordinators, error) {
	s := &coordinatorsStatements{}
	_, err := db.Exec(coordinatorsSchema)
	if err != nil {
		return nil, err
	}
	return s, sqlutil.StatementList{
		{&s.selectCoordinatorIDsByGroupStmt, selectCoordinatorIDsByGroupSQL},
		{&s.selectAllCoordinatorPairsStmt, selectAllCoordinatorPairsSQL},
		{&s.selectGroupIDsByCoordinatorStmt, selectGroupIDsByCoordinatorSQL},
	}.Prepare(db)
}

func (s *coordinatorsStatements) SelectCoordinatorIDsByGroup(ctx context.Context, groupID int64) ([]int64, error) {
	return queryIDs(ctx, s.selectCoordinatorIDsByGroupStmt, "selectCoordinatorIDsByGroup", groupID)
}

func (s *coordinatorsStatements) SelectAllCoordinatorPairs(ctx context.Context) ([][2]int64, error) {
	return queryIDPairs(ctx, s.selectAllCoordinatorPairsStmt, "selectAllCoordinatorPairs")
}

func (s *coordinatorsStatements) SelectGroupIDsByCoordinator(ctx context.Context, personID int64) ([]int64, error) {
	return queryIDs(ctx, s.selectGroupIDsByCoordinatorStmt, "selectGroupIDsByCoordinator", personID)
}
