// Package repomanager binds the repository implementations of one database
// dialect together with that dialect's migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/entries"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/folders"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Entries(db dbx.DBTX) entries.Repository
	Folders(db dbx.DBTX) folders.Repository
}

// sqlDriverNames maps configured drivers to registered database/sql drivers.
var sqlDriverNames = map[string]string{
	common.DriverPostgres: "pgx",
	common.DriverSQLite:   "sqlite",
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// New returns the RepositoryManager for driver.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case common.DriverPostgres:
		return &PostgresRepositoryManager{}, nil
	case common.DriverSQLite:
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// OpenDB opens and pings a connection pool for driver.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	name, ok := sqlDriverNames[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", common.ErrorStorage, err)
	}
	if driver == common.DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %w", common.ErrorStorage, err)
	}
	return db, nil
}
