package postgres

import (
	"fmt"

	"github.com/orbitsocial/orbit/internal/sqlutil"
	"github.com/orbitsocial/orbit/setup/config"
	"github.com/orbitsocial/orbit/notifserver/storage/shared"
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

	if d.Notifications, err = NewPostgresNotificationsTable(db); err != nil {
		return nil, err
	}
	if d.Alerts, err = NewPostgresAlertsTable(db); err != nil {
		return nil, err
	}
	if d.Preferences, err = NewPostgresPreferencesTable(db); err != nil {
		return nil, err
	}

	return &d, nil
}
