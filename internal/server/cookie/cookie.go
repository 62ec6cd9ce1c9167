// Package cookie builds and reads the uid cookie and keeps it refreshed on
// API responses.
package cookie

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/server/auth"
	"github.com/dmitrijs2005/anonsession/internal/server/config"
	"github.com/labstack/echo/v4"
)

// DefaultDays is the cookie lifetime used when none is configured.
const DefaultDays = 90

// ContextKey is the echo context key holding the uid to write back. A
// handler that stores "" suppresses the cookie for its response.
const ContextKey = "uid"

// now is a test seam.
var now = time.Now

// Build returns a cookie string of the form
// "name=value; expires=<GMT date>; path=/".
func Build(name, value string, days int) string {
	expires := now().Add(time.Duration(days) * 24 * time.Hour).UTC()
	return fmt.Sprintf("%s=%s; expires=%s; path=/", name, value, expires.Format(http.TimeFormat))
}

// ReadUID returns the uid cookie of r, or "".
func ReadUID(r *http.Request) string {
	c, err := r.Cookie(common.UIDCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Middleware mirrors the caller's uid into a cookie on every response
// outside the configured admin paths.
func Middleware(cfg *config.Config) echo.MiddlewareFunc {
	days := cfg.CookieDays
	if days <= 0 {
		days = DefaultDays
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if cfg.IsAdminPath(req.URL.Path) {
				return next(c)
			}

			if uid := ReadUID(req); uid != "" {
				c.Set(ContextKey, uid)
			}

			c.Response().Before(func() {
				uid, ok := c.Get(ContextKey).(string)
				if !ok {
					uid = auth.BearerToken(req)
				}
				if uid == "" {
					return
				}
				c.Response().Header().Add("Set-Cookie", Build(common.UIDCookieName, uid, days))
			})

			return next(c)
		}
	}
}
