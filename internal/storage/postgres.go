package storage

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// PostgresStore is the shared-instance deployment target for operators
// who run the engine against Postgres instead of a local SQLite file.
// Same schema, same Store interface, same invariants.
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore connects to Postgres via dsn (a libpq connection
// string) and ensures the schema exists.
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	store := &PostgresStore{sqlStore{db: db, logger: logger}}
	if _, err := db.Exec(postgresSchema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}
