package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
	"github.com/bookworm-social/bookworm-api/internal/core/ports"
)

const (
	MinPasswordLength = 8
	DefaultBcryptCost = 10

	defaultAvatarURL = "https://api.dicebear.com/9.x/adventurer/svg?seed="
)

// AuthService implements registration and login on top of a UserRepository
// and a TokenService.
type AuthService struct {
	repo       ports.UserRepository
	tokens     ports.TokenService
	bcryptCost int
	validate   *validator.Validate
	log        zerolog.Logger

	// dummyHash is compared against when the email is unknown so both login
	// failures cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, bcryptCost int, log zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = DefaultBcryptCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("bookworm-dummy-password"), bcryptCost)
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		validate:   validator.New(),
		log:        log,
		dummyHash:  dummy,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return nil, "", domain.ErrMissingFields
	}
	if len(in.Password) < MinPasswordLength {
		return nil, "", domain.ErrPasswordTooShort
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, "", domain.ErrInvalidEmail
	}

	if err := s.checkAvailability(ctx, username, email); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	profileImage := strings.TrimSpace(in.ProfileImage)
	if profileImage == "" {
		profileImage = DefaultAvatar(username)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		ProfileImage: profileImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, token, nil
}

// checkAvailability runs both uniqueness queries before deciding.
func (s *AuthService) checkAvailability(ctx context.Context, username, email string) error {
	emailTaken, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	usernameTaken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}

	switch {
	case emailTaken && usernameTaken:
		return domain.ErrUserExists
	case emailTaken:
		return domain.ErrEmailTaken
	case usernameTaken:
		return domain.ErrUsernameTaken
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrMissingCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}

// DefaultAvatar returns the generated avatar used when a user registers
// without a profile image.
func DefaultAvatar(username string) string {
	return defaultAvatarURL + url.QueryEscape(username)
}
