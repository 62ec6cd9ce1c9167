// Package addresses stores user shipping and billing addresses.
package addresses

import (
	"context"

	"github.com/dmitrijs2005/anonsession/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Address) (*models.Address, error)
	// GetByID returns common.ErrorNotFound when no address has id.
	GetByID(ctx context.Context, id int64) (*models.Address, error)
	// ListByUser returns the user's addresses, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*models.Address, error)
	// Update overwrites every mutable field of a.
	Update(ctx context.Context, a *models.Address) (*models.Address, error)
}
