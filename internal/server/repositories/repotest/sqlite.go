// Package repotest opens migrated SQLite databases for tests of repositories
// and the services built on them.
package repotest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/server/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// DSN returns a SQLite DSN for a fresh database file in the test's temp dir.
func DSN(t testing.TB) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "vault.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// OpenSQLite returns a fresh database with the full schema applied. It is
// closed when the test finishes.
//
// The pool holds a single connection, as the server does for SQLite, so
// callers must not keep a *sql.Rows open across a transaction.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open(common.DriverSQLite, DSN(t))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.SQLite)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.Up(db, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
