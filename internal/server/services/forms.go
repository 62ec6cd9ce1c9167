package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/dbx"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/repomanager"
)

// ContactService stores contact-form submissions.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager) *ContactService {
	return &ContactService{db: db, repomanager: m}
}

func (s *ContactService) Create(ctx context.Context, name, email, message string) (*models.Contact, error) {
	c := &models.Contact{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Message: message,
	}
	if c.Name == "" || c.Email == "" || strings.TrimSpace(c.Message) == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", common.ErrorValidation)
	}

	out, err := s.repomanager.Contacts(s.db).Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error creating contact: %w", err)
	}
	return out, nil
}

// MailingListService manages newsletter subscriptions.
type MailingListService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMailingListService(db *sql.DB, m repomanager.RepositoryManager) *MailingListService {
	return &MailingListService{db: db, repomanager: m}
}

// Subscribe creates a subscriber, or re-subscribes the existing entry for
// email.
func (s *MailingListService) Subscribe(ctx context.Context, name, email, message string) (*models.Subscriber, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrorValidation)
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Subscriber, error) {
		repo := s.repomanager.MailingList(tx)

		existing, err := repo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			if err := repo.SetSubscribed(ctx, existing.ID, true); err != nil {
				return nil, fmt.Errorf("error resubscribing: %w", err)
			}
			existing.Subscribed = true
			return existing, nil
		case errors.Is(err, common.ErrorNotFound):
			sub, err := repo.Create(ctx, &models.Subscriber{
				Name:       strings.TrimSpace(name),
				Email:      email,
				Message:    message,
				Subscribed: true,
			})
			if err != nil {
				return nil, fmt.Errorf("error creating subscriber: %w", err)
			}
			return sub, nil
		default:
			return nil, fmt.Errorf("error searching subscriber: %w", err)
		}
	})
}

// Unsubscribe flags every entry for email. Unknown emails are not an error.
func (s *MailingListService) Unsubscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if _, err := s.repomanager.MailingList(s.db).UnsubscribeEmail(ctx, email); err != nil {
		return fmt.Errorf("error unsubscribing: %w", err)
	}
	return nil
}
