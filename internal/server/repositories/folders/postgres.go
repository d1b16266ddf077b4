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

// PostgresRepository implements folder storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := `
		INSERT INTO folders (id, owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query,
		folder.ID, folder.OwnerID, folder.Name, folder.CreatedAt, folder.UpdatedAt); err != nil {
		return fmt.Errorf("%w: insert folder: %w", common.ErrorStorage, err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Folder, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at FROM folders
		WHERE id = $1 AND owner_id = $2
	`
	f := &models.Folder{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&f.ID, &f.OwnerID, &f.Name, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: select folder: %w", common.ErrorStorage, err)
	}
	return f, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.Folder, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at FROM folders
		WHERE owner_id = $1
		ORDER BY name, id
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: select folders: %w", common.ErrorStorage, err)
	}
	defer rows.Close()

	result := []*models.Folder{}
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan folder: %w", common.ErrorStorage, err)
		}
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate folders: %w", common.ErrorStorage, err)
	}
	return result, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, ownerID, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM folders WHERE id = $1 AND owner_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&ok); err != nil {
		return false, fmt.Errorf("%w: folder exists: %w", common.ErrorStorage, err)
	}
	return ok, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, ownerID, id, name string, at time.Time) error {
	query := `UPDATE folders SET name = $1, updated_at = $2 WHERE id = $3 AND owner_id = $4`

	res, err := r.db.ExecContext(ctx, query, name, at, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: rename folder: %w", common.ErrorStorage, err)
	}
	return dbx.ExpectOneRow(res, "rename folder")
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM folders WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: delete folder: %w", common.ErrorStorage, err)
	}
	return dbx.ExpectOneRow(res, "delete folder")
}
