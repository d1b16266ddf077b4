package folders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/server/models"
)

// SQLiteRepository implements folder storage for SQLite.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := `
		INSERT INTO folders (id, owner_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, folder.ID, folder.OwnerID, folder.Name,
		dbx.FormatTime(folder.CreatedAt), dbx.FormatTime(folder.UpdatedAt)); err != nil {
		return fmt.Errorf("%w: insert folder: %w", common.ErrorStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, ownerID, id string) (*models.Folder, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at FROM folders
		WHERE id = ? AND owner_id = ?
	`
	f, err := scanFolder(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: select folder: %w", common.ErrorStorage, err)
	}
	return f, nil
}

func (r *SQLiteRepository) List(ctx context.Context, ownerID string) ([]*models.Folder, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at FROM folders
		WHERE owner_id = ?
		ORDER BY name, id
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: select folders: %w", common.ErrorStorage, err)
	}
	defer rows.Close()

	result := []*models.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan folder: %w", common.ErrorStorage, err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate folders: %w", common.ErrorStorage, err)
	}
	return result, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, ownerID, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM folders WHERE id = ? AND owner_id = ?)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&ok); err != nil {
		return false, fmt.Errorf("%w: folder exists: %w", common.ErrorStorage, err)
	}
	return ok, nil
}

func (r *SQLiteRepository) Rename(ctx context.Context, ownerID, id, name string, at time.Time) error {
	query := `UPDATE folders SET name = ?, updated_at = ? WHERE id = ? AND owner_id = ?`

	res, err := r.db.ExecContext(ctx, query, name, dbx.FormatTime(at), id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: rename folder: %w", common.ErrorStorage, err)
	}
	return dbx.ExpectOneRow(res, "rename folder")
}

func (r *SQLiteRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM folders WHERE id = ? AND owner_id = ?`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: delete folder: %w", common.ErrorStorage, err)
	}
	return dbx.ExpectOneRow(res, "delete folder")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (*models.Folder, error) {
	var (
		f                    models.Folder
		createdAt, updatedAt string
	)
	if err := row.Scan(&f.ID, &f.OwnerID, &f.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if f.CreatedAt, err = dbx.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = dbx.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}
