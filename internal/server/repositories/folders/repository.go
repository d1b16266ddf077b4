// Package folders persists the per-owner folders entries can be grouped in.
package folders

import (
	"context"
	"time"

	"github.com/dmitrijs2005/credvault/internal/server/models"
)

// Repository is the storage contract for folders. Deleting a folder never
// touches the entries that reference it.
type Repository interface {
	Create(ctx context.Context, folder *models.Folder) error
	Get(ctx context.Context, ownerID, id string) (*models.Folder, error)
	// List returns the owner's folders ordered by name, then id.
	List(ctx context.Context, ownerID string) ([]*models.Folder, error)
	Exists(ctx context.Context, ownerID, id string) (bool, error)
	Rename(ctx context.Context, ownerID, id, name string, at time.Time) error
	Delete(ctx context.Context, ownerID, id string) error
}
