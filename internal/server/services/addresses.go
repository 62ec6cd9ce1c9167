package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/dbx"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/repomanager"
)

// AddressService manages a user's addresses. Only the owner may read or
// change an address.
type AddressService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAddressService(db *sql.DB, m repomanager.RepositoryManager) *AddressService {
	return &AddressService{db: db, repomanager: m}
}

// List returns u's addresses, newest first.
func (s *AddressService) List(ctx context.Context, u *models.User) ([]*models.Address, error) {
	out, err := s.repomanager.Addresses(s.db).ListByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing addresses: %w", err)
	}
	return out, nil
}

// Get returns the address id when u owns it. Foreign addresses yield
// common.ErrorForbidden.
func (s *AddressService) Get(ctx context.Context, u *models.User, id int64) (*models.Address, error) {
	return s.owned(ctx, s.db, u, id)
}

func (s *AddressService) owned(ctx context.Context, db dbx.DBTX, u *models.User, id int64) (*models.Address, error) {
	a, err := s.repomanager.Addresses(db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: address not found", common.ErrorNotFound)
		}
		return nil, fmt.Errorf("error loading address: %w", err)
	}
	if a.UserID != u.ID {
		return nil, fmt.Errorf("%w: address belongs to another user", common.ErrorForbidden)
	}
	return a, nil
}

// Create stores a new address owned by u.
func (s *AddressService) Create(ctx context.Context, u *models.User, p *models.AddressPatch) (*models.Address, error) {
	a := &models.Address{}
	p.Apply(a)
	a.UserID = u.ID

	if missing := a.MissingRequired(); missing != "" {
		return nil, fmt.Errorf("%w: %s is required", common.ErrorValidation, missing)
	}

	out, err := s.repomanager.Addresses(s.db).Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("error creating address: %w", err)
	}
	return out, nil
}

// Update applies p to the address id owned by u.
func (s *AddressService) Update(ctx context.Context, u *models.User, id int64, p *models.AddressPatch) (*models.Address, error) {
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Address, error) {
		a, err := s.owned(ctx, tx, u, id)
		if err != nil {
			return nil, err
		}

		p.Apply(a)
		if missing := a.MissingRequired(); missing != "" {
			return nil, fmt.Errorf("%w: %s is required", common.ErrorValidation, missing)
		}

		out, err := s.repomanager.Addresses(tx).Update(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("error updating address: %w", err)
		}
		return out, nil
	})
}
