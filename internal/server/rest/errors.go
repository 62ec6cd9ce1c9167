package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/logging"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// statusFor maps an error to its HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if s, ok := he.Message.(string); ok {
			return he.Code, s
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	for _, m := range []struct {
		target error
		code   int
	}{
		{common.ErrTokenBanned, http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrorForbidden, http.StatusForbidden},
		{common.ErrorAlreadyExists, http.StatusForbidden},
		{common.ErrorValidation, http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
	} {
		if errors.Is(err, m.target) {
			return m.code, message(err, m.target)
		}
	}
	return http.StatusInternalServerError, common.ErrorInternal.Error()
}

// message strips the "<sentinel>: " prefix added by fmt.Errorf("%w: ...").
func message(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok && rest != "" {
		return rest
	}
	return msg
}

// forbidden turns credential failures into 403 responses carrying the
// service message.
func forbidden(err error) error {
	for _, target := range []error{common.ErrorUnauthorized, common.ErrorValidation, common.ErrorAlreadyExists} {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusForbidden, message(err, target)).SetInternal(err)
		}
	}
	return err
}

// ErrorHandler renders errors as {"success":false,"message":...}.
func ErrorHandler(logger logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := statusFor(err)
		if code >= http.StatusInternalServerError {
			logger.Error(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, errorResponse{Success: false, Message: msg})
		}
		if werr != nil {
			logger.Error(c.Request().Context(), "error writing error response", "error", werr)
		}
	}
}
