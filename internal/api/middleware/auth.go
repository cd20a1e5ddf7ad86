package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookworm-social/bookworm-api/internal/api/handler"
	"github.com/bookworm-social/bookworm-api/internal/core/domain"
	"github.com/bookworm-social/bookworm-api/internal/core/ports"
	"github.com/bookworm-social/bookworm-api/internal/pkg/metrics"
)

// UserFinder resolves the subject of a verified token. Implementations must
// not return the password hash.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth verifies the bearer token, loads its user and injects it into the
// context. Rejections are returned as domain errors for the central handler.
func Auth(tokens ports.TokenService, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return reject(err)
			}

			userID, err := tokens.Verify(raw)
			if err != nil {
				return reject(domain.ErrInvalidToken)
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return reject(domain.ErrStaleToken)
				}
				return fmt.Errorf("resolve token subject: %w", err)
			}

			handler.SetCurrentUser(c, user)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively and never passed through.
func bearerToken(header string) (string, error) {
	h := strings.TrimSpace(header)
	if h == "" {
		return "", domain.ErrNoToken
	}

	scheme, rest, _ := strings.Cut(h, " ")
	if !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrInvalidToken
	}

	token := strings.TrimSpace(rest)
	if token == "" {
		return "", domain.ErrNoToken
	}
	return token, nil
}

func reject(err error) error {
	reason := "invalid_token"
	switch {
	case errors.Is(err, domain.ErrNoToken):
		reason = "no_token"
	case errors.Is(err, domain.ErrStaleToken):
		reason = "stale_token"
	}
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	return err
}
