package rest

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
)

type fakeUsers struct {
	mu        sync.Mutex
	byToken   map[string]*models.User
	next      int64
	touched   int
	loggedOut []string
	authErr   error
	regErr    error
	loginErr  error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byToken: map[string]*models.User{}, next: 1}
}

func (f *fakeUsers) add(token string, u models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		u.ID = f.next
		f.next++
	}
	u.Token = token
	f.byToken[token] = &u
	return &u
}

func (f *fakeUsers) touches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched
}

func (f *fakeUsers) CreateAnonymous(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	token := fmt.Sprintf("issued-%d", f.next)
	f.mu.Unlock()
	return f.add(token, models.User{}), nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return u, nil
}

func (f *fakeUsers) Register(ctx context.Context, u *models.User, email, password string) (*models.User, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return f.add("registered-token", models.User{ID: u.ID, Email: email, PasswordHash: "h"}), nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.add("login-token", models.User{ID: 99, Email: email, PasswordHash: "h"}), nil
}

func (f *fakeUsers) Logout(ctx context.Context, u *models.User, presented string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, presented)
	delete(f.byToken, presented)
	return nil
}

func (f *fakeUsers) Touch(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched++
	return nil
}

type fakeContacts struct {
	err error
}

func (f *fakeContacts) Create(ctx context.Context, name, email, message string) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Contact{ID: 1, Name: name, Email: email, Message: message}, nil
}

type fakeMailing struct {
	unsubscribed []string
}

func (f *fakeMailing) Subscribe(ctx context.Context, name, email, message string) (*models.Subscriber, error) {
	if email == "" {
		return nil, common.ErrorValidation
	}
	return &models.Subscriber{ID: 1, Name: name, Email: email, Message: message, Subscribed: true}, nil
}

func (f *fakeMailing) Unsubscribe(ctx context.Context, email string) error {
	f.unsubscribed = append(f.unsubscribed, email)
	return nil
}

type fakeAddresses struct {
	mu   sync.Mutex
	rows []*models.Address
}

func (f *fakeAddresses) List(ctx context.Context, u *models.User) ([]*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Address
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == u.ID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeAddresses) Get(ctx context.Context, u *models.User, id int64) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.ID != id {
			continue
		}
		if a.UserID != u.ID {
			return nil, fmt.Errorf("%w: address belongs to another user", common.ErrorForbidden)
		}
		return a, nil
	}
	return nil, fmt.Errorf("%w: address not found", common.ErrorNotFound)
}

func (f *fakeAddresses) Create(ctx context.Context, u *models.User, p *models.AddressPatch) (*models.Address, error) {
	a := &models.Address{UserID: u.ID}
	p.Apply(a)
	if missing := a.MissingRequired(); missing != "" {
		return nil, fmt.Errorf("%w: %s is required", common.ErrorValidation, missing)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, a)
	return a, nil
}

func (f *fakeAddresses) Update(ctx context.Context, u *models.User, id int64, p *models.AddressPatch) (*models.Address, error) {
	a, err := f.Get(ctx, u, id)
	if err != nil {
		return nil, err
	}
	p.Apply(a)
	return a, nil
}
