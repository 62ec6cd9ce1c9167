// Package session holds the client's anonymous identity for the lifetime of
// the process. A Session is created once at startup, handed to whatever needs
// to talk to the API, and closed on exit.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/anonsession/internal/client/fetch"
	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/logging"
)

const DefaultBootstrapTimeout = 15 * time.Second

// ErrRejected is returned when the API answers a credential request with
// success:false or without a token.
var ErrRejected = errors.New("request rejected")

// Session owns the current identifier and attaches it as a bearer token to
// every API call. It is safe for concurrent use.
type Session struct {
	client  *fetch.Client
	store   Store
	logger  logging.Logger
	ua      string
	timeout time.Duration

	bootstrapMu sync.Mutex

	mu  sync.RWMutex
	uid string
}

// Option configures a Session.
type Option func(*Session)

// WithUserAgent sets the userAgent sent when requesting a new identifier.
func WithUserAgent(ua string) Option {
	return func(s *Session) { s.ua = ua }
}

// WithBootstrapTimeout bounds GetToken. Non-positive values are ignored.
func WithBootstrapTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func New(client *fetch.Client, store Store, logger logging.Logger, opts ...Option) *Session {
	if store == nil {
		store = &MemoryStore{}
	}
	if logger == nil {
		logger = logging.NewDiscard()
	}
	s := &Session{
		client:  client,
		store:   store,
		logger:  logger,
		timeout: DefaultBootstrapTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) UID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uid
}

// SetUID replaces the identifier and persists it.
func (s *Session) SetUID(ctx context.Context, uid string) error {
	if err := s.store.Save(ctx, uid); err != nil {
		return fmt.Errorf("save uid: %w", err)
	}
	s.mu.Lock()
	s.uid = uid
	s.mu.Unlock()
	return nil
}

func (s *Session) clearUID(ctx context.Context) error {
	s.mu.Lock()
	s.uid = ""
	s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear uid: %w", err)
	}
	return nil
}

type tokenRequest struct {
	UserAgent string `json:"userAgent"`
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// GetToken asks the API for a new anonymous identifier. It never returns an
// error: any failure, including the bootstrap timeout, yields ("", false).
func (s *Session) GetToken(ctx context.Context, userAgent string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		token string
		ok    bool
	}
	done := make(chan result, 1)

	go func() {
		var resp tokenResponse
		err := s.client.Post(ctx, common.UsersPath, "", tokenRequest{UserAgent: userAgent}, &resp)
		if err != nil || !resp.Success || resp.Token == "" {
			done <- result{}
			return
		}
		done <- result{token: resp.Token, ok: true}
	}()

	select {
	case <-ctx.Done():
		return "", false
	case r := <-done:
		return r.token, r.ok
	}
}

// Bootstrap makes sure the session has an identifier: the one in memory, else
// the stored one, else a freshly issued one. Not obtaining one is not an
// error; the returned uid is then empty.
func (s *Session) Bootstrap(ctx context.Context) (string, error) {
	s.bootstrapMu.Lock()
	defer s.bootstrapMu.Unlock()

	if uid := s.UID(); uid != "" {
		return uid, nil
	}

	stored, err := s.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load uid: %w", err)
	}
	if stored != "" {
		s.mu.Lock()
		s.uid = stored
		s.mu.Unlock()
		return stored, nil
	}

	token, ok := s.GetToken(ctx, s.ua)
	if !ok {
		s.logger.Warn(ctx, "anonymous identifier unavailable", "api", s.client.BaseURL())
		return "", nil
	}
	if err := s.SetUID(ctx, token); err != nil {
		return "", err
	}
	s.logger.Debug(ctx, "anonymous identifier issued")
	return token, nil
}

// Get performs an authenticated GET with the current identifier.
func (s *Session) Get(ctx context.Context, path string, out any) error {
	return s.client.Get(ctx, path, s.UID(), out)
}

// Post performs an authenticated POST with the current identifier.
func (s *Session) Post(ctx context.Context, path string, data, out any) error {
	return s.client.Post(ctx, path, s.UID(), data, out)
}

// Put performs an authenticated PUT with the current identifier.
func (s *Session) Put(ctx context.Context, path string, data, out any) error {
	return s.client.Put(ctx, path, s.UID(), data, out)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for the registered user's identifier, which
// replaces the current one.
func (s *Session) Login(ctx context.Context, email, password string) error {
	return s.exchange(ctx, "/login", email, password)
}

// Register attaches credentials to the current anonymous user. The API
// answers with a rotated identifier which replaces the current one.
func (s *Session) Register(ctx context.Context, email, password string) error {
	return s.exchange(ctx, "/register", email, password)
}

func (s *Session) exchange(ctx context.Context, path, email, password string) error {
	var resp tokenResponse
	if err := s.Post(ctx, path, credentials{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	if !resp.Success || resp.Token == "" {
		if resp.Message != "" {
			return fmt.Errorf("%w: %s", ErrRejected, resp.Message)
		}
		return ErrRejected
	}
	return s.SetUID(ctx, resp.Token)
}

// Logout revokes the identifier server side and forgets it locally. The
// local copy is kept when the API could not be reached or refused the call.
func (s *Session) Logout(ctx context.Context) error {
	if s.UID() == "" {
		return nil
	}
	var resp tokenResponse
	if err := s.Post(ctx, "/logout", nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		if resp.Message != "" {
			return fmt.Errorf("%w: %s", ErrRejected, resp.Message)
		}
		return ErrRejected
	}
	return s.clearUID(ctx)
}

type PingInfo struct {
	Version     string `json:"version"`
	Success     bool   `json:"success"`
	Environment string `json:"environment"`
}

func (s *Session) Ping(ctx context.Context) (PingInfo, error) {
	var info PingInfo
	if err := s.client.Get(ctx, "/ping", "", &info); err != nil {
		return PingInfo{}, err
	}
	return info, nil
}

// Close releases the store when it holds resources. The persisted identifier
// is kept for the next run.
func (s *Session) Close() error {
	s.mu.Lock()
	s.uid = ""
	s.mu.Unlock()
	if c, ok := s.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
