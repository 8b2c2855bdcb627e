// Package users declares the user store and its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/tweeter/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts a new user. A taken username yields common.ErrorConflict.
	Create(ctx context.Context, userName, passwordHash string) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound when no user has that name.
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	// GetUserByID returns common.ErrorNotFound when the id is unknown.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// Update applies upd to the user with the given id.
	Update(ctx context.Context, id string, upd models.UserUpdate) error
}
