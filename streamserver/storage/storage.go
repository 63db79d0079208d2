package storage

import (
	"fmt"

	"github.com/orbitsocial/orbit/setup/config"
	"github.com/orbitsocial/orbit/streamserver/storage/postgres"
)

// NewDatabase opens a database connection for the streamserver.
func NewDatabase(dbProperties *config.DatabaseOptions) (Database, error) {
	switch {
	case dbProperties.ConnectionString.IsPostgres():
		return postgres.Open(dbProperties)
	default:
		return nil, fmt.Errorf("unexpected database type %q", dbProperties.ConnectionString)
	}
}
