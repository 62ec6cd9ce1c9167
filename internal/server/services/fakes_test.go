package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/dbx"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/bannedtokens"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/mailinglist"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
	err    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{nextID: 1, byID: map[int64]*models.User{}}
}

func (r *fakeUsersRepo) put(u models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	}
	r.byID[u.ID] = &u
	cp := u
	return &cp
}

func (r *fakeUsersRepo) snapshot(id int64) models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.byID[id]
}

func (r *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.put(*u), nil
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *fakeUsersRepo) GetByToken(ctx context.Context, token string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Token == token })
}

func (r *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUsersRepo) update(id int64, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(u)
	return nil
}

func (r *fakeUsersRepo) SetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	return r.update(id, func(u *models.User) { u.Token, u.TokenExpiration = token, expires })
}

func (r *fakeUsersRepo) ClearToken(ctx context.Context, id int64) error {
	return r.update(id, func(u *models.User) { u.Token, u.TokenExpiration = "", time.Time{} })
}

func (r *fakeUsersRepo) SetCredentials(ctx context.Context, id int64, email, hash string) error {
	return r.update(id, func(u *models.User) { u.Email, u.PasswordHash = email, hash })
}

func (r *fakeUsersRepo) Touch(ctx context.Context, id int64, at time.Time) error {
	return r.update(id, func(u *models.User) { u.Updated = at })
}

type fakeBannedRepo struct {
	mu     sync.Mutex
	tokens map[string]bool
	err    error
}

func (r *fakeBannedRepo) Ban(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.tokens[token] = true
	return nil
}

func (r *fakeBannedRepo) IsBanned(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	return r.tokens[token], nil
}

func (r *fakeBannedRepo) has(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[token]
}

type fakeContactsRepo struct {
	created []models.Contact
	err     error
}

func (r *fakeContactsRepo) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	if r.err != nil {
		return nil, r.err
	}
	cp := *c
	cp.ID = int64(len(r.created) + 1)
	r.created = append(r.created, cp)
	return &cp, nil
}

type fakeMailingRepo struct {
	subs []models.Subscriber
	err  error
}

func (r *fakeMailingRepo) Create(ctx context.Context, s *models.Subscriber) (*models.Subscriber, error) {
	if r.err != nil {
		return nil, r.err
	}
	cp := *s
	cp.ID = int64(len(r.subs) + 1)
	r.subs = append(r.subs, cp)
	return &cp, nil
}

func (r *fakeMailingRepo) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.subs {
		if s.Email == email {
			cp := s
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeMailingRepo) SetSubscribed(ctx context.Context, id int64, subscribed bool) error {
	for i := range r.subs {
		if r.subs[i].ID == id {
			r.subs[i].Subscribed = subscribed
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *fakeMailingRepo) UnsubscribeEmail(ctx context.Context, email string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for i := range r.subs {
		if r.subs[i].Email == email {
			r.subs[i].Subscribed = false
			n++
		}
	}
	return n, nil
}

type fakeAddressesRepo struct {
	rows []*models.Address
	err  error
}

func (r *fakeAddressesRepo) Create(ctx context.Context, a *models.Address) (*models.Address, error) {
	if r.err != nil {
		return nil, r.err
	}
	cp := *a
	cp.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, &cp)
	out := cp
	return &out, nil
}

func (r *fakeAddressesRepo) GetByID(ctx context.Context, id int64) (*models.Address, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.rows {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeAddressesRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Address, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*models.Address, 0)
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			cp := *r.rows[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAddressesRepo) Update(ctx context.Context, a *models.Address) (*models.Address, error) {
	for i, row := range r.rows {
		if row.ID == a.ID {
			cp := *a
			r.rows[i] = &cp
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	users     *fakeUsersRepo
	banned    *fakeBannedRepo
	contacts  *fakeContactsRepo
	mailing   *fakeMailingRepo
	addresses *fakeAddressesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:     newFakeUsersRepo(),
		banned:    &fakeBannedRepo{tokens: map[string]bool{}},
		contacts:  &fakeContactsRepo{},
		mailing:   &fakeMailingRepo{},
		addresses: &fakeAddressesRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return m.users }
func (m *fakeRepoManager) BannedTokens(dbx.DBTX) bannedtokens.Repository { return m.banned }
func (m *fakeRepoManager) Contacts(dbx.DBTX) contacts.Repository { return m.contacts }
func (m *fakeRepoManager) MailingList(dbx.DBTX) mailinglist.Repository { return m.mailing }
func (m *fakeRepoManager) Addresses(dbx.DBTX) addresses.Repository { return m.addresses }

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func freezeNow(t *testing.T, at time.Time) {
	t.Helper()
	old := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = old })
}
