// Package refreshtokens declares the repository contract for refresh tokens
// issued at login and rotated on refresh.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/credvault/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID that expires at expires.
	Create(ctx context.Context, userID string, token string, expires time.Time) error

	// Find looks up a refresh token by its opaque token string. Absent tokens
	// yield common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, token string) error
}
