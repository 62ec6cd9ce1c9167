package contacts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/anonsession/internal/dbx"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	query :=
		`INSERT INTO contacts (name, email, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, created, updated`

	if err := r.db.QueryRowContext(ctx, query, c.Name, c.Email, c.Message).
		Scan(&c.ID, &c.Created, &c.Updated); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
