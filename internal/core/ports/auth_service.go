package ports

import (
	"context"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
)

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	ProfileImage string // optional
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenService issues and verifies stateless identity tokens.
type TokenService interface {
	Issue(userID string) (string, error)
	// Verify returns the embedded user id or domain.ErrInvalidToken.
	Verify(token string) (string, error)
}
