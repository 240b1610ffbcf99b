package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatwave/auth-api/internal/api/metrics"
	"github.com/chatwave/auth-api/internal/core/domain"
	"github.com/chatwave/auth-api/internal/core/ports"
)

// AuthService orchestrates registration, login, logout, refresh, and profile
// retrieval over the user repository and token issuer. It holds no state of
// its own beyond those handles.
type AuthService struct {
	users      ports.UserRepository
	issuer     ports.TokenIssuer
	events     ports.EventPublisher
	bcryptCost int
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, issuer ports.TokenIssuer, events ports.EventPublisher, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, issuer: issuer, events: events, bcryptCost: bcryptCost, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if ve := validateRegisterInput(input); !ve.Empty() {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, ve
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		DisplayName:  input.DisplayName,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hash),
		Status:       domain.StatusActive,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if ve := conflictToValidation(err); ve != nil {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return nil, ve
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.events != nil {
		s.events.Publish(ports.UserEvent{
			Name:       ports.EventUserRegistered,
			UserID:     created.ID,
			Username:   created.Username,
			Email:      created.Email,
			OccurredAt: time.Now().UTC(),
		})
	}

	token, err := s.issuer.Issue(ctx, created)
	if err != nil {
		// Undo the insert so a failed registration leaves no user behind.
		if delErr := s.users.Delete(ctx, created.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("user_id", created.ID).Msg("registration rollback failed")
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("register").Inc()
	return &ports.AuthResult{User: created, AccessToken: token, TokenType: domain.TokenType}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same error as a wrong password, so callers cannot probe
			// which addresses have accounts.
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active() {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	// Existing sessions stay valid; login only adds a token.
	token, err := s.issuer.Issue(ctx, user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.users.TouchLastSeen(ctx, user.ID); err != nil {
		s.logger.Debug().Err(err).Str("user_id", user.ID).Msg("touch last_seen failed")
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("login").Inc()
	return &ports.AuthResult{User: user, AccessToken: token, TokenType: domain.TokenType}, nil
}

func (s *AuthService) Logout(ctx context.Context, user *domain.User) error {
	return s.issuer.RevokeAll(ctx, user.ID)
}

func (s *AuthService) Refresh(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	token, err := s.issuer.Rotate(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()
	return &ports.AuthResult{User: user, AccessToken: token, TokenType: domain.TokenType}, nil
}

func (s *AuthService) Profile(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

// validateRegisterInput checks presence, format, and bounds, collecting one
// reason per offending field.
func validateRegisterInput(input ports.RegisterInput) *domain.ValidationError {
	ve := domain.NewValidationError()

	switch {
	case input.Username == "":
		ve.Add("username", "username is required")
	case len(input.Username) < domain.MinUsernameLen:
		ve.Add("username", fmt.Sprintf("username must be at least %d characters", domain.MinUsernameLen))
	case len(input.Username) > domain.MaxUsernameLen:
		ve.Add("username", fmt.Sprintf("username must be at most %d characters", domain.MaxUsernameLen))
	}

	switch {
	case input.Email == "":
		ve.Add("email", "email is required")
	case len(input.Email) > domain.MaxEmailLen:
		ve.Add("email", fmt.Sprintf("email must be at most %d characters", domain.MaxEmailLen))
	default:
		if _, err := mail.ParseAddress(input.Email); err != nil {
			ve.Add("email", "email must be a valid address")
		}
	}

	switch {
	case input.DisplayName == "":
		ve.Add("display_name", "display_name is required")
	case len(input.DisplayName) > domain.MaxDisplayNameLen:
		ve.Add("display_name", fmt.Sprintf("display_name must be at most %d characters", domain.MaxDisplayNameLen))
	}

	if len(input.PhoneNumber) > domain.MaxPhoneNumberLen {
		ve.Add("phone_number", fmt.Sprintf("phone_number must be at most %d characters", domain.MaxPhoneNumberLen))
	}

	switch {
	case input.Password == "":
		ve.Add("password", "password is required")
	case len(input.Password) < domain.MinPasswordLen:
		ve.Add("password", fmt.Sprintf("password must be at least %d characters", domain.MinPasswordLen))
	case input.Password != input.PasswordConfirmation:
		ve.Add("password_confirmation", "password confirmation does not match")
	}

	return ve
}

// conflictToValidation maps unique-index conflicts from the store to the
// field-level shape registration failures use. Returns nil for other errors.
func conflictToValidation(err error) *domain.ValidationError {
	ve := domain.NewValidationError()
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		ve.Add("username", "username is already taken")
	case errors.Is(err, domain.ErrEmailTaken):
		ve.Add("email", "email is already taken")
	case errors.Is(err, domain.ErrUserExists):
		ve.Add("username", "username or email is already taken")
	default:
		return nil
	}
	return ve
}
