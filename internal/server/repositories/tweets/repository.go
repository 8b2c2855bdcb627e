// Package tweets declares the tweet store and its PostgreSQL implementation.
package tweets

import (
	"context"

	"github.com/dmitrijs2005/tweeter/internal/server/models"
)

// Repository persists tweets. Lookups, updates and deletes of an unknown
// id yield common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, authorID, text string) (*models.Tweet, error)
	GetByID(ctx context.Context, id string) (*models.Tweet, error)
	Update(ctx context.Context, id, text string) (*models.Tweet, error)
	Delete(ctx context.Context, id string) error
}
