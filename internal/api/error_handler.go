package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// domainStatus maps every sentinel error to its HTTP status. The sentinel's
// own text is rendered, never the wrapped cause.
var domainStatus = []struct {
	err  error
	code int
}{
	// Validation
	{domain.ErrMissingFields, http.StatusBadRequest},
	{domain.ErrMissingCredentials, http.StatusBadRequest},
	{domain.ErrPasswordTooShort, http.StatusBadRequest},
	{domain.ErrInvalidEmail, http.StatusBadRequest},
	{domain.ErrInvalidRating, http.StatusBadRequest},
	{domain.ErrInvalidImage, http.StatusBadRequest},
	// Conflict
	{domain.ErrEmailTaken, http.StatusBadRequest},
	{domain.ErrUsernameTaken, http.StatusBadRequest},
	{domain.ErrUserExists, http.StatusBadRequest},
	// Unauthenticated
	{domain.ErrNoToken, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrStaleToken, http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	// Forbidden
	{domain.ErrForbidden, http.StatusUnauthorized},
	// NotFound
	{domain.ErrBookNotFound, http.StatusNotFound},
	// DependencyError
	{domain.ErrBlobStorage, http.StatusInternalServerError},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs every error, unexpected ones with their cause.
//   - Renders a consistent JSON envelope: {"message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)

		event := log.Warn()
		if code >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).
			Int("status", code).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("request failed")

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error) (int, string) {
	// Echo's own errors (bind failures, validation, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return m.code, m.err.Error()
		}
	}

	return http.StatusInternalServerError, "internal server error"
}
