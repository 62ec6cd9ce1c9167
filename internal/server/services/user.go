// Package services contains server-side business logic. UserService issues
// anonymous identifiers, resolves bearer tokens to users and handles
// registration, login and logout. Every identifier rotation bans the
// superseded token in the same transaction.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/dbx"
	"github.com/dmitrijs2005/anonsession/internal/server/auth"
	"github.com/dmitrijs2005/anonsession/internal/server/config"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Tokens shorter than this are never adopted.
	minAdoptableTokenLen = 21
	adoptedTokenValidity = 1000 * 24 * time.Hour
)

// now is a test seam for the service clock.
var now = time.Now

type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	adoptUnknown  bool
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		adoptUnknown:  cfg.AdoptUnknownTokens,
	}
}

// CreateAnonymous creates a user without credentials and issues its first
// identifier.
func (s *UserService) CreateAnonymous(ctx context.Context) (*models.User, error) {
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{})
		if err != nil {
			return nil, fmt.Errorf("error creating user: %w", err)
		}
		if err := s.issueToken(ctx, tx, u); err != nil {
			return nil, err
		}
		return u, nil
	})
}

// Authenticate resolves a bearer token to its user.
//
// Banned tokens yield common.ErrTokenBanned. Expired JWTs are banned and
// yield common.ErrTokenExpired. When adoption is enabled, a long enough
// token that is not a JWT is bound to a user, created on first sight.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	banned, err := s.repomanager.BannedTokens(s.db).IsBanned(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if banned {
		return nil, common.ErrTokenBanned
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	switch {
	case err == nil:
		return s.userFromClaims(ctx, claims)
	case errors.Is(err, common.ErrTokenExpired):
		if banErr := s.repomanager.BannedTokens(s.db).Ban(ctx, token); banErr != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorInternal, banErr)
		}
		return nil, common.ErrTokenExpired
	case errors.Is(err, auth.ErrNotJWT) && s.adoptUnknown && len(token) >= minAdoptableTokenLen:
		return s.adopt(ctx, token)
	default:
		return nil, common.ErrInvalidToken
	}
}

func (s *UserService) userFromClaims(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return u, nil
}

func (s *UserService) adopt(ctx context.Context, token string) (*models.User, error) {
	users := s.repomanager.Users(s.db)

	u, err := users.GetByToken(ctx, token)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	u, err = users.Create(ctx, &models.User{Token: token, TokenExpiration: now().Add(adoptedTokenValidity)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return u, nil
}

func validateCredentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: must specify email and password", common.ErrorValidation)
	}
	return email, nil
}

// Register attaches credentials to the anonymous user u and rotates its
// identifier.
func (s *UserService) Register(ctx context.Context, u *models.User, email, password string) (*models.User, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}
	if !u.IsAnonymous() {
		return nil, fmt.Errorf("%w: user is already registered", common.ErrorAlreadyExists)
	}

	if _, err := s.repomanager.Users(s.db).GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: cannot register user - email already exists", common.ErrorAlreadyExists)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		if err := s.repomanager.Users(tx).SetCredentials(ctx, u.ID, email, string(hash)); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return nil, fmt.Errorf("%w: cannot register user - email already exists", common.ErrorAlreadyExists)
			}
			return nil, fmt.Errorf("error storing credentials: %w", err)
		}
		registered := *u
		registered.Email = email
		registered.PasswordHash = string(hash)
		if err := s.issueToken(ctx, tx, &registered); err != nil {
			return nil, err
		}
		return &registered, nil
	})
}

// Login verifies credentials and returns the registered user with a valid
// identifier, issuing a fresh one when it has none. The caller's anonymous
// identifier stays valid.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: cannot log in - this email is not registered yet", common.ErrorUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if u.IsAnonymous() || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid password for user", common.ErrorUnauthorized)
	}

	if u.Token != "" && u.TokenExpiration.After(now()) {
		return u, nil
	}
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		if err := s.issueToken(ctx, tx, u); err != nil {
			return nil, err
		}
		return u, nil
	})
}

// Logout bans both the presented token and the user's stored one, then
// forgets the stored one.
func (s *UserService) Logout(ctx context.Context, u *models.User, presented string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		banned := s.repomanager.BannedTokens(tx)
		for _, t := range uniqueNonEmpty(presented, u.Token) {
			if err := banned.Ban(ctx, t); err != nil {
				return fmt.Errorf("error banning token: %w", err)
			}
		}
		if u.Token == "" {
			return nil
		}
		if err := s.repomanager.Users(tx).ClearToken(ctx, u.ID); err != nil {
			return fmt.Errorf("error clearing token: %w", err)
		}
		u.Token = ""
		u.TokenExpiration = time.Time{}
		return nil
	})
}

// Touch records activity for u.
func (s *UserService) Touch(ctx context.Context, u *models.User) error {
	at := now()
	if err := s.repomanager.Users(s.db).Touch(ctx, u.ID, at); err != nil {
		return err
	}
	u.Updated = at
	return nil
}

// issueToken mints and stores a new identifier for u and bans the one it
// replaces. tx should be a transaction.
func (s *UserService) issueToken(ctx context.Context, tx dbx.DBTX, u *models.User) error {
	token, err := auth.GenerateToken(strconv.FormatInt(u.ID, 10), s.jwtSecret, s.tokenValidity)
	if err != nil {
		return common.ErrorInternal
	}
	expires := now().Add(s.tokenValidity)

	if err := s.repomanager.Users(tx).SetToken(ctx, u.ID, token, expires); err != nil {
		return fmt.Errorf("error storing token: %w", err)
	}
	if u.Token != "" {
		if err := s.repomanager.BannedTokens(tx).Ban(ctx, u.Token); err != nil {
			return fmt.Errorf("error banning token: %w", err)
		}
	}

	u.Token = token
	u.TokenExpiration = expires
	return nil
}

func uniqueNonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
