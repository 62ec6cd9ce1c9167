package bannedtokens

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/anonsession/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Ban(ctx context.Context, token string) error {
	query := `INSERT INTO banned_tokens (token) VALUES ($1) ON CONFLICT (token) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) IsBanned(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM banned_tokens WHERE token = $1)`

	var banned bool
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&banned); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return banned, nil
}
