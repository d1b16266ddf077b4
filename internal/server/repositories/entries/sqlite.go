package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/server/models"
)

// SQLiteRepository implements entry storage for SQLite. Timestamps are
// stored as dbx.TimeLayout text and flags as 0/1 integers.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.OwnerID, entry.Title, entry.Username, entry.Secret, entry.URL, entry.Notes,
		dbx.NullString(entry.FolderID), entry.Favorite, entry.Deleted,
		dbx.FormatTime(entry.CreatedAt), dbx.FormatTime(entry.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%w: insert entry: %w", common.ErrorStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, ownerID, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE id = ? AND owner_id = ? AND deleted = 0`

	e, err := scanSQLite(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: select entry: %w", common.ErrorStorage, err)
	}
	return e, nil
}

func (r *SQLiteRepository) List(ctx context.Context, ownerID string, filter ListFilter) ([]*models.Entry, error) {
	var sb strings.Builder
	args := []any{ownerID}

	sb.WriteString(`SELECT ` + entryColumns + ` FROM entries e WHERE e.owner_id = ? AND e.deleted = 0`)
	if filter.FolderID != nil {
		args = append(args, *filter.FolderID)
		sb.WriteString(` AND e.folder_id = ?` +
			` AND EXISTS (SELECT 1 FROM folders f WHERE f.id = e.folder_id AND f.owner_id = e.owner_id)`)
	}
	if filter.FavoritesOnly {
		sb.WriteString(` AND e.favorite = 1`)
	}
	sb.WriteString(` ORDER BY e.created_at, e.id`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: select entries: %w", common.ErrorStorage, err)
	}
	return collectSQLite(rows)
}

func (r *SQLiteRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries SET
			title = ?, username = ?, secret = ?, url = ?, notes = ?, folder_id = ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND deleted = 0
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.Title, entry.Username, entry.Secret, entry.URL, entry.Notes,
		dbx.NullString(entry.FolderID), dbx.FormatTime(entry.UpdatedAt), entry.ID, entry.OwnerID)
	if err != nil {
		return fmt.Errorf("%w: update entry: %w", common.ErrorStorage, err)
	}
	return dbx.ExpectOneRow(res, "update entry")
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, ownerID, id string, at time.Time) error {
	query := `
		UPDATE entries SET deleted = 1, updated_at = ?
		WHERE id = ? AND owner_id = ? AND deleted = 0
	`
	res, err := r.db.ExecContext(ctx, query, dbx.FormatTime(at), id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: delete entry: %w", common.ErrorStorage, err)
	}
	return dbx.ExpectOneRow(res, "delete entry")
}

func (r *SQLiteRepository) ToggleFavorite(ctx context.Context, ownerID, id string, at time.Time) (bool, error) {
	query := `
		UPDATE entries SET favorite = 1 - favorite, updated_at = ?
		WHERE id = ? AND owner_id = ? AND deleted = 0
		RETURNING favorite
	`
	var favorite bool
	if err := r.db.QueryRowContext(ctx, query, dbx.FormatTime(at), id, ownerID).Scan(&favorite); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("%w: toggle favorite: %w", common.ErrorStorage, err)
	}
	return favorite, nil
}

func (r *SQLiteRepository) ListBatch(ctx context.Context, afterID string, limit int) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id > ? ORDER BY id LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: select entry batch: %w", common.ErrorStorage, err)
	}
	return collectSQLite(rows)
}

func (r *SQLiteRepository) ReplaceSecret(ctx context.Context, id, current, replacement string) (bool, error) {
	query := `UPDATE entries SET secret = ? WHERE id = ? AND secret = ?`

	res, err := r.db.ExecContext(ctx, query, replacement, id, current)
	if err != nil {
		return false, fmt.Errorf("%w: replace secret: %w", common.ErrorStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: replace secret: rows affected: %w", common.ErrorStorage, err)
	}
	return n == 1, nil
}

func scanSQLite(row rowScanner) (*models.Entry, error) {
	var (
		e                    models.Entry
		folderID             sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Username, &e.Secret, &e.URL, &e.Notes,
		&folderID, &e.Favorite, &e.Deleted, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if e.CreatedAt, err = dbx.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = dbx.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	e.FolderID = dbx.StringPtr(folderID)
	return &e, nil
}

func collectSQLite(rows *sql.Rows) ([]*models.Entry, error) {
	defer rows.Close()

	result := []*models.Entry{}
	for rows.Next() {
		e, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan entry: %w", common.ErrorStorage, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate entries: %w", common.ErrorStorage, err)
	}
	return result, nil
}
