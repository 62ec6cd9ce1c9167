package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/anonsession/internal/server/models"
)

// Repository stores users. Lookups return common.ErrorNotFound when no row
// matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByToken(ctx context.Context, token string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetToken(ctx context.Context, id int64, token string, expires time.Time) error
	ClearToken(ctx context.Context, id int64) error
	// SetCredentials returns common.ErrorAlreadyExists when email belongs to
	// another user.
	SetCredentials(ctx context.Context, id int64, email, passwordHash string) error
	Touch(ctx context.Context, id int64, at time.Time) error
}
