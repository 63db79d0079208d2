package postgres

import (
	"fmt"

	"github.com/orbitsocial/orbit/internal/sqlutil"
	"github.com/orbitsocial/orbit/setup/config"
	"github.com/orbitsocial/orbit/streamserver/storage/shared"
)

type Database struct {
	shared.Database
}

func Open(dbProperties *config.DatabaseOptions) (*Database, error) {
	var d Database
	var err error
	db, err := sqlutil.Open(dbProperties)
	if err != nil {
		return nil, fmt.Errorf("sqlutil.Open: %w", err)
	}
	d.DB = db
	d.Writer = sqlutil.NewDummyWriter()

	// Organizations first: the groups join depends on the table existing.
	if d.Organizations, err = NewPostgresOrganizationsTable(db); err != nil {
		return nil, err
	}
	if d.People, err = NewPostgresPeopleTable(db); err != nil {
		return nil, err
	}
	if d.Groups, err = NewPostgresGroupsTable(db); err != nil {
		return nil, err
	}
	if d.PersonFollowers, err = NewPostgresPersonFollowersTable(db); err != nil {
		return nil, err
	}
	if d.GroupFollowers, err = NewPostgresGroupFollowersTable(db); err != nil {
		return nil, err
	}
	if d.Coordinators, err = NewPostgresCoordinatorsTable(db); err != nil {
		return nil, err
	}
	if d.Activities, err = NewPostgresActivitiesTable(db); err != nil {
		return nil, err
	}
	if d.CompositeStreams, err = NewPostgresCompositeStreamsTable(db); err != nil {
		return nil, err
	}

	return &d, nil
}
