package refreshtokens

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

// SQLiteRepository implements refresh token storage for SQLite.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, userID string, token string, expires time.Time) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token, dbx.FormatTime(expires)); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = ?
	`
	var (
		refreshToken = &models.RefreshToken{Token: token}
		expires      string
	)
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&refreshToken.UserID, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorStorage, err)
	}
	t, err := dbx.ParseTime(expires)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorStorage, err)
	}
	refreshToken.Expires = t
	return refreshToken, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = ?`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorStorage, err)
	}
	return nil
}
