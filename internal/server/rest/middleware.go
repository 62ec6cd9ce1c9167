package rest

import (
	"time"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/logging"
	"github.com/dmitrijs2005/anonsession/internal/server/auth"
	"github.com/dmitrijs2005/anonsession/internal/server/botdetect"
	"github.com/dmitrijs2005/anonsession/internal/server/cookie"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
	"github.com/labstack/echo/v4"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// RequestLogger logs one line per request once the response is written.
// Requests from scrapers are logged at warn level.
func RequestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			begin := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			ua := req.UserAgent()
			args := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(begin).String(),
			}
			if botdetect.IsScraper(ua) {
				logger.Warn(req.Context(), "scraper request", append(args, "user_agent", ua)...)
			} else {
				logger.Info(req.Context(), "request", args...)
			}
			return nil
		}
	}
}

// Authenticate resolves the bearer token to a user and stores it in the
// context. Activity of non-bot callers is recorded. On failure the uid
// cookie is suppressed for the response.
func Authenticate(users UserService, logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			token := auth.BearerToken(req)
			if token == "" {
				c.Set(cookie.ContextKey, "")
				return common.ErrorUnauthorized
			}

			u, err := users.Authenticate(ctx, token)
			if err != nil {
				// A rejected identifier must not be written back as the uid cookie.
				c.Set(cookie.ContextKey, "")
				return err
			}

			if !botdetect.IsBot(req.UserAgent()) {
				if err := users.Touch(ctx, u); err != nil {
					logger.Warn(ctx, "cannot record user activity", "user_id", u.ID, "error", err)
				}
			}

			c.Set(userKey, u)
			c.Set(tokenKey, token)
			return next(c)
		}
	}
}

func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}

func presentedToken(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}
