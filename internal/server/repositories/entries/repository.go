// Package entries persists vault entries. Secrets pass through as the opaque
// sealed strings produced by the cipher; this package never sees plaintext.
package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/credvault/internal/server/models"
)

// ListFilter narrows List. The zero value lists every live entry of an owner.
type ListFilter struct {
	// FolderID restricts the result to entries of this folder. Entries are
	// matched only while the folder itself exists.
	FolderID *string
	// FavoritesOnly restricts the result to favorite entries.
	FavoritesOnly bool
}

// Repository is the storage contract for entries. Every owner-scoped method
// ignores soft-deleted rows and returns common.ErrorNotFound when the row is
// absent, deleted or owned by someone else.
type Repository interface {
	Create(ctx context.Context, entry *models.Entry) error
	Get(ctx context.Context, ownerID, id string) (*models.Entry, error)
	List(ctx context.Context, ownerID string, filter ListFilter) ([]*models.Entry, error)

	// Update writes the mutable fields of entry and its UpdatedAt.
	Update(ctx context.Context, entry *models.Entry) error
	SoftDelete(ctx context.Context, ownerID, id string, at time.Time) error

	// ToggleFavorite flips the favorite flag in a single statement and
	// returns the new value.
	ToggleFavorite(ctx context.Context, ownerID, id string, at time.Time) (bool, error)

	// ListBatch pages through all rows of all owners, deleted included,
	// ordered by id and starting after afterID.
	ListBatch(ctx context.Context, afterID string, limit int) ([]*models.Entry, error)

	// ReplaceSecret swaps the stored secret only while it still equals
	// current. It reports whether a row was changed.
	ReplaceSecret(ctx context.Context, id, current, replacement string) (bool, error)
}
