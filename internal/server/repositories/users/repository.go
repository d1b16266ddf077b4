// Package users persists vault accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/credvault/internal/server/models"
)

// Repository is the storage contract for accounts.
type Repository interface {
	// Create inserts user. A taken username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin looks a user up by username or returns common.ErrorNotFound.
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
}
