package sqlutil

import (
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/orbitsocial/orbit/setup/config"
)

// Open opens the database identified by the given connection options.
// Only PostgreSQL data sources are accepted.
func Open(dbProperties *config.DatabaseOptions) (*sql.DB, error) {
	if !dbProperties.ConnectionString.IsPostgres() {
		return nil, fmt.Errorf("invalid database connection string %q", dbProperties.ConnectionString)
	}
	dsn := string(dbProperties.ConnectionString)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"max_open_conns":    dbProperties.MaxOpenConns(),
		"max_idle_conns":    dbProperties.MaxIdleConns(),
		"conn_max_lifetime": dbProperties.ConnMaxLifetime(),
		"data_source_name":  regexp.MustCompile(`://[^@]*@`).ReplaceAllLiteralString(dsn, "://"),
	}).Debug("Setting DB connection limits")
	db.SetMaxOpenConns(dbProperties.MaxOpenConns())
	db.SetMaxIdleConns(dbProperties.MaxIdleConns())
	db.SetConnMaxLifetime(dbProperties.ConnMaxLifetime())
	return db, nil
}
