package ports

import (
	"context"

	"github.com/chatwave/auth-api/internal/core/domain"
)

// RegisterInput carries the raw registration fields before validation.
type RegisterInput struct {
	Username             string
	Email                string
	DisplayName          string
	PhoneNumber          string
	Password             string
	PasswordConfirmation string
}

// AuthResult is returned by operations that issue a token.
type AuthResult struct {
	User        *domain.User
	AccessToken string
	TokenType   string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Logout revokes every token owned by the user, ending all sessions.
	Logout(ctx context.Context, user *domain.User) error
	// Refresh atomically replaces all of the user's tokens with one new token.
	Refresh(ctx context.Context, user *domain.User) (*AuthResult, error)
	Profile(ctx context.Context, user *domain.User) (*domain.User, error)
}
