package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/logging"
	"github.com/dmitrijs2005/anonsession/internal/server/botdetect"
	"github.com/dmitrijs2005/anonsession/internal/server/config"
	"github.com/dmitrijs2005/anonsession/internal/server/cookie"
	"github.com/labstack/echo/v4"
)

type pingResponse struct {
	Version     string `json:"version"`
	Success     bool   `json:"success"`
	Environment string `json:"environment"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Success bool   `json:"success"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type createUserRequest struct {
	UserAgent string `json:"userAgent"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type formRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type unsubscribeRequest struct {
	Email string `json:"email"`
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	return nil
}

// PingHandler reports the API version and environment.
func PingHandler(cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, pingResponse{
			Version:     cfg.Version,
			Success:     true,
			Environment: cfg.Environment,
		})
	}
}

// IsBotHandler answers "True" or "False" for the caller's User-Agent.
func IsBotHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		if botdetect.IsBot(c.Request().UserAgent()) {
			return c.String(http.StatusOK, "True")
		}
		return c.String(http.StatusOK, "False")
	}
}

// CreateUserHandler issues a new anonymous identifier. Bots are answered
// with an empty token and no user is created for them.
func CreateUserHandler(users UserService, logger logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createUserRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		headerUA := c.Request().UserAgent()
		if botdetect.IsBot(headerUA) || botdetect.IsBot(req.UserAgent) {
			logger.Debug(c.Request().Context(), "not issuing identifier to bot",
				"user_agent", headerUA, "reported_user_agent", req.UserAgent)
			c.Set(cookie.ContextKey, "")
			return c.JSON(http.StatusOK, tokenResponse{Token: "", Success: true})
		}

		u, err := users.CreateAnonymous(c.Request().Context())
		if err != nil {
			return err
		}

		c.Set(cookie.ContextKey, u.Token)
		return c.JSON(http.StatusOK, tokenResponse{Token: u.Token, Success: true})
	}
}

// GetUserHandler returns the caller's own record.
func GetUserHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}

		u := currentUser(c)
		if u == nil {
			return common.ErrorUnauthorized
		}
		if u.ID != id {
			return echo.NewHTTPError(http.StatusForbidden, "cannot access another user")
		}
		return c.JSON(http.StatusOK, u.View())
	}
}

// RegisterHandler attaches credentials to the caller and returns the
// rotated identifier.
func RegisterHandler(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		u, err := users.Register(c.Request().Context(), currentUser(c), req.Email, req.Password)
		if err != nil {
			return forbidden(err)
		}

		c.Set(cookie.ContextKey, u.Token)
		return c.JSON(http.StatusOK, tokenResponse{Token: u.Token, Success: true})
	}
}

// LoginHandler exchanges credentials for the registered user's identifier.
func LoginHandler(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		u, err := users.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return forbidden(err)
		}

		c.Set(cookie.ContextKey, u.Token)
		return c.JSON(http.StatusOK, tokenResponse{Token: u.Token, Success: true})
	}
}

// LogoutHandler revokes the presented identifier and stops echoing it in
// the uid cookie.
func LogoutHandler(users UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := users.Logout(c.Request().Context(), currentUser(c), presentedToken(c)); err != nil {
			return err
		}
		c.Set(cookie.ContextKey, "")
		return c.JSON(http.StatusOK, successResponse{Success: true})
	}
}

// ContactHandler stores a contact form and returns the record.
func ContactHandler(contacts ContactService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req formRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		contact, err := contacts.Create(c.Request().Context(), req.Name, req.Email, req.Message)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, contact)
	}
}

// SubscribeHandler adds or re-subscribes an email to the mailing list.
func SubscribeHandler(mailing MailingListService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req formRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		sub, err := mailing.Subscribe(c.Request().Context(), req.Name, req.Email, req.Message)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, sub)
	}
}

// UnsubscribeHandler flags every mailing-list entry for an email.
func UnsubscribeHandler(mailing MailingListService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req unsubscribeRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		if err := mailing.Unsubscribe(c.Request().Context(), req.Email); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, successResponse{Success: true})
	}
}
