package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/server/models"
)

const entryColumns = `id, owner_id, title, username, secret, url, notes, folder_id, favorite, deleted, created_at, updated_at`

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.OwnerID, entry.Title, entry.Username, entry.Secret, entry.URL, entry.Notes,
		dbx.NullString(entry.FolderID), entry.Favorite, entry.Deleted, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert entry: %w", common.ErrorStorage, err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE id = $1 AND owner_id = $2 AND deleted = FALSE`

	e, err := scanPostgres(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: select entry: %w", common.ErrorStorage, err)
	}
	return e, nil
}

// List returns live entries of ownerID ordered by creation time, then id.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, filter ListFilter) ([]*models.Entry, error) {
	var sb strings.Builder
	args := []any{ownerID}

	sb.WriteString(`SELECT ` + entryColumns + ` FROM entries e WHERE e.owner_id = $1 AND e.deleted = FALSE`)
	if filter.FolderID != nil {
		args = append(args, *filter.FolderID)
		n := strconv.Itoa(len(args))
		sb.WriteString(` AND e.folder_id = $` + n +
			` AND EXISTS (SELECT 1 FROM folders f WHERE f.id = e.folder_id AND f.owner_id = e.owner_id)`)
	}
	if filter.FavoritesOnly {
		sb.WriteString(` AND e.favorite = TRUE`)
	}
	sb.WriteString(` ORDER BY e.created_at, e.id`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: select entries: %w", common.ErrorStorage, err)
	}
	return collectPostgres(rows)
}

func (r *PostgresRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries SET
			title = $1, username = $2, secret = $3, url = $4, notes = $5, folder_id = $6, updated_at = $7
		WHERE id = $8 AND owner_id = $9 AND deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.Title, entry.Username, entry.Secret, entry.URL, entry.Notes,
		dbx.NullString(entry.FolderID), entry.UpdatedAt, entry.ID, entry.OwnerID)
	if err != nil {
		return fmt.Errorf("%w: update entry: %w", common.ErrorStorage, err)
	}
	return dbx.ExpectOneRow(res, "update entry")
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, ownerID, id string, at time.Time) error {
	query := `
		UPDATE entries SET deleted = TRUE, updated_at = $1
		WHERE id = $2 AND owner_id = $3 AND deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, at, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: delete entry: %w", common.ErrorStorage, err)
	}
	return dbx.ExpectOneRow(res, "delete entry")
}

func (r *PostgresRepository) ToggleFavorite(ctx context.Context, ownerID, id string, at time.Time) (bool, error) {
	query := `
		UPDATE entries SET favorite = NOT favorite, updated_at = $1
		WHERE id = $2 AND owner_id = $3 AND deleted = FALSE
		RETURNING favorite
	`
	var favorite bool
	if err := r.db.QueryRowContext(ctx, query, at, id, ownerID).Scan(&favorite); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("%w: toggle favorite: %w", common.ErrorStorage, err)
	}
	return favorite, nil
}

func (r *PostgresRepository) ListBatch(ctx context.Context, afterID string, limit int) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id > $1 ORDER BY id LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: select entry batch: %w", common.ErrorStorage, err)
	}
	return collectPostgres(rows)
}

func (r *PostgresRepository) ReplaceSecret(ctx context.Context, id, current, replacement string) (bool, error) {
	query := `UPDATE entries SET secret = $1 WHERE id = $2 AND secret = $3`

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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgres(row rowScanner) (*models.Entry, error) {
	var (
		e        models.Entry
		folderID sql.NullString
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Username, &e.Secret, &e.URL, &e.Notes,
		&folderID, &e.Favorite, &e.Deleted, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.FolderID = dbx.StringPtr(folderID)
	return &e, nil
}

func collectPostgres(rows *sql.Rows) ([]*models.Entry, error) {
	defer rows.Close()

	result := []*models.Entry{}
	for rows.Next() {
		e, err := scanPostgres(rows)
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
