package storage

import (
	"fmt"

	"github.com/orbitsocial/orbit/notifserver/storage/postgres"
	"github.com/orbitsocial/orbit/setup/config"
)

// NewDatabase opens a database connection for the notifserver.
func NewDatabase(dbProperties *config.DatabaseOptions) (Database, error) {
	switch {
	case dbProperties.ConnectionString.IsPostgres():
		return postgres.Open(dbProperties)
	default:
		return nil, fmt.Errorf("unexpected database type %q", dbProperties.ConnectionString)
	}
}
