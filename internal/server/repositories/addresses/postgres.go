package addresses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/dbx"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
)

const columns = `id, user_id, first_name, last_name, phone_number, street1, street2,
	city, state, post_code, country_code, organization, is_billing, created, updated`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*models.Address, error) {
	a := &models.Address{}
	err := row.Scan(&a.ID, &a.UserID, &a.FirstName, &a.LastName, &a.PhoneNumber, &a.Street1, &a.Street2,
		&a.City, &a.State, &a.PostCode, &a.CountryCode, &a.Organization, &a.IsBilling, &a.Created, &a.Updated)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Address) (*models.Address, error) {
	query :=
		`INSERT INTO addresses (user_id, first_name, last_name, phone_number, street1, street2,
			city, state, post_code, country_code, organization, is_billing)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created, updated`

	err := r.db.QueryRowContext(ctx, query,
		a.UserID, a.FirstName, a.LastName, a.PhoneNumber, a.Street1, a.Street2,
		a.City, a.State, a.PostCode, a.CountryCode, a.Organization, a.IsBilling,
	).Scan(&a.ID, &a.Created, &a.Updated)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Address, error) {
	query := `SELECT ` + columns + ` FROM addresses WHERE id = $1`

	a, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Address, error) {
	query := `SELECT ` + columns + ` FROM addresses WHERE user_id = $1 ORDER BY created DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Address, 0)
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Address) (*models.Address, error) {
	query :=
		`UPDATE addresses SET first_name = $2, last_name = $3, phone_number = $4, street1 = $5,
			street2 = $6, city = $7, state = $8, post_code = $9, country_code = $10,
			organization = $11, is_billing = $12, updated = now()
		 WHERE id = $1
		 RETURNING updated`

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.FirstName, a.LastName, a.PhoneNumber, a.Street1, a.Street2,
		a.City, a.State, a.PostCode, a.CountryCode, a.Organization, a.IsBilling,
	).Scan(&a.Updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}
