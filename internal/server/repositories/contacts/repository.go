// Package contacts stores contact-form submissions.
package contacts

import (
	"context"

	"github.com/dmitrijs2005/anonsession/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
}
