// Package rest exposes the session API over HTTP using echo.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/anonsession/internal/logging"
	"github.com/dmitrijs2005/anonsession/internal/server/config"
	"github.com/dmitrijs2005/anonsession/internal/server/cookie"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// UserService issues, resolves and rotates identifiers.
type UserService interface {
	CreateAnonymous(ctx context.Context) (*models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Register(ctx context.Context, u *models.User, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context, u *models.User, presented string) error
	Touch(ctx context.Context, u *models.User) error
}

// ContactService stores contact-form submissions.
type ContactService interface {
	Create(ctx context.Context, name, email, message string) (*models.Contact, error)
}

// MailingListService manages newsletter subscriptions.
type MailingListService interface {
	Subscribe(ctx context.Context, name, email, message string) (*models.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
}

// AddressService manages the caller's addresses.
type AddressService interface {
	List(ctx context.Context, u *models.User) ([]*models.Address, error)
	Get(ctx context.Context, u *models.User, id int64) (*models.Address, error)
	Create(ctx context.Context, u *models.User, p *models.AddressPatch) (*models.Address, error)
	Update(ctx context.Context, u *models.User, id int64, p *models.AddressPatch) (*models.Address, error)
}

// Services bundles the business logic the API delegates to.
type Services struct {
	Users       UserService
	Contacts    ContactService
	MailingList MailingListService
	Addresses   AddressService
}

// Server is the HTTP API. Create it with NewServer and start it with Run.
type Server struct {
	addr   string
	echo   *echo.Echo
	logger logging.Logger
}

// NewServer builds the echo router with logging, cookie and error handling
// middleware and registers every route.
func NewServer(cfg *config.Config, logger logging.Logger, svc Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(RequestLogger(logger))
	e.Use(cookie.Middleware(cfg))

	registerRoutes(e, cfg, logger, svc)

	return &Server{addr: cfg.EndpointAddrHTTP, echo: e, logger: logger}
}

func registerRoutes(e *echo.Echo, cfg *config.Config, logger logging.Logger, svc Services) {
	getPost := []string{http.MethodGet, http.MethodPost}

	ping := PingHandler(cfg)
	e.Match(getPost, "/", ping)
	e.Match(getPost, "/ping", ping)

	e.GET("/is-bot", IsBotHandler())
	e.GET("/is_bot", IsBotHandler())

	e.Match(getPost, "/users", CreateUserHandler(svc.Users, logger))

	authed := Authenticate(svc.Users, logger)
	e.GET("/users/:id", GetUserHandler(), authed)
	e.POST("/register", RegisterHandler(svc.Users), authed)
	e.POST("/login", LoginHandler(svc.Users), authed)
	e.Match(getPost, "/logout", LogoutHandler(svc.Users), authed)
	e.POST("/contact", ContactHandler(svc.Contacts), authed)
	e.POST("/subscribe", SubscribeHandler(svc.MailingList), authed)
	e.PUT("/unsubscribe", UnsubscribeHandler(svc.MailingList), authed)

	e.GET("/addresses", ListAddressesHandler(svc.Addresses), authed)
	e.POST("/addresses", CreateAddressHandler(svc.Addresses), authed)
	e.GET("/addresses/:id", GetAddressHandler(svc.Addresses), authed)
	e.PUT("/addresses/:id", UpdateAddressHandler(svc.Addresses), authed)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
