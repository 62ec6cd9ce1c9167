// Package mailinglist stores newsletter subscribers.
package mailinglist

import (
	"context"

	"github.com/dmitrijs2005/anonsession/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Subscriber) (*models.Subscriber, error)
	// GetByEmail returns the oldest entry for email, or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	SetSubscribed(ctx context.Context, id int64, subscribed bool) error
	// UnsubscribeEmail flags every entry for email and reports how many changed.
	UnsubscribeEmail(ctx context.Context, email string) (int64, error)
}
