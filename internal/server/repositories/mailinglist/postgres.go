package mailinglist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/dbx"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Subscriber) (*models.Subscriber, error) {
	query :=
		`INSERT INTO mailing_list (name, email, message, subscribed)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created, updated`

	if err := r.db.QueryRowContext(ctx, query, s.Name, s.Email, s.Message, s.Subscribed).
		Scan(&s.ID, &s.Created, &s.Updated); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	query :=
		`SELECT id, name, email, message, subscribed, created, updated FROM mailing_list
		 WHERE email = $1 ORDER BY id LIMIT 1`

	s := &models.Subscriber{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&s.ID, &s.Name, &s.Email, &s.Message, &s.Subscribed, &s.Created, &s.Updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) SetSubscribed(ctx context.Context, id int64, subscribed bool) error {
	query := `UPDATE mailing_list SET subscribed = $2, updated = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, subscribed)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UnsubscribeEmail(ctx context.Context, email string) (int64, error) {
	query := `UPDATE mailing_list SET subscribed = FALSE, updated = now() WHERE email = $1`

	res, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
