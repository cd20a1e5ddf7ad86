package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
)

const currentUserKey = "user"

// SetCurrentUser stores the authenticated user on the request context.
func SetCurrentUser(c echo.Context, u *domain.User) {
	c.Set(currentUserKey, u)
}

// CurrentUser returns the user injected by the Auth middleware. A route
// wired without the middleware fails closed with domain.ErrNoToken.
func CurrentUser(c echo.Context) (*domain.User, error) {
	u, ok := c.Get(currentUserKey).(*domain.User)
	if !ok || u == nil || u.ID == "" {
		return nil, domain.ErrNoToken
	}
	return u, nil
}
