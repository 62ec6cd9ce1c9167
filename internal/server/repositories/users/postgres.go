package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/dbx"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectUser = `SELECT id, email, token, token_expiration, password_hash, is_admin, created, updated FROM users`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, token, token_expiration, password_hash, is_admin)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created, updated
		 `

	err := r.db.QueryRowContext(ctx, query,
		nullString(user.Email), nullString(user.Token), nullTime(user.TokenExpiration),
		user.PasswordHash, user.IsAdmin,
	).Scan(&user.ID, &user.Created, &user.Updated)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE token = $1 ORDER BY id LIMIT 1`, token)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		u       models.User
		email   sql.NullString
		token   sql.NullString
		expires sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &email, &token, &expires, &u.PasswordHash, &u.IsAdmin, &u.Created, &u.Updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.Email = email.String
	u.Token = token.String
	u.TokenExpiration = expires.Time
	return &u, nil
}

func (r *PostgresRepository) SetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	return r.update(ctx,
		`UPDATE users SET token = $2, token_expiration = $3, updated = now() WHERE id = $1`,
		id, token, expires)
}

func (r *PostgresRepository) ClearToken(ctx context.Context, id int64) error {
	return r.update(ctx,
		`UPDATE users SET token = NULL, token_expiration = NULL, updated = now() WHERE id = $1`,
		id)
}

func (r *PostgresRepository) SetCredentials(ctx context.Context, id int64, email, passwordHash string) error {
	err := r.update(ctx,
		`UPDATE users SET email = $2, password_hash = $3, updated = now() WHERE id = $1`,
		id, email, passwordHash)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return common.ErrorAlreadyExists
	}
	return err
}

func (r *PostgresRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, `UPDATE users SET updated = $2 WHERE id = $1`, id, at)
}

func (r *PostgresRepository) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
