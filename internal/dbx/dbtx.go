// Package dbx holds the small database abstractions shared by repositories:
// the DBTX handle implemented by both *sql.DB and *sql.Tx, scoped
// transactions, and result helpers that translate driver outcomes into
// the common error taxonomy.
package dbx

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
)

// DBTX is the subset of database/sql used by repositories.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with the transactional handle and
// commits on success. On error or panic the transaction is rolled back;
// panics are rethrown. The handle is released on every exit path.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    return repos.Entries(tx).Update(ctx, entry)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", common.ErrorStorage, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("%w: commit: %w", common.ErrorStorage, cErr)
		}
	}()

	err = fn(ctx, tx)
	return err
}

// ExpectOneRow checks that a single-row write touched exactly one row.
// Zero rows means the row is absent or not visible to the caller and maps
// to common.ErrorNotFound.
func ExpectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s: rows affected: %w", common.ErrorStorage, op, err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("%w: %s: unexpected rows affected: %d", common.ErrorStorage, op, n)
	}
}
