package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chatwave/auth-api/internal/api/metrics"
	"github.com/chatwave/auth-api/internal/core/domain"
	"github.com/chatwave/auth-api/internal/core/ports"
)

const tokenBytes = 32

// TokenService issues, revokes, and resolves opaque bearer tokens. Plaintext
// tokens leave this service exactly once, at issuance; the repository only
// ever sees SHA-256 digests.
type TokenService struct {
	tokens ports.TokenRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewTokenService(tokens ports.TokenRepository, users ports.UserRepository, logger zerolog.Logger) *TokenService {
	return &TokenService{tokens: tokens, users: users, logger: logger}
}

func (s *TokenService) Issue(ctx context.Context, user *domain.User) (string, error) {
	plaintext, record, err := mintToken(user.ID)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Insert(ctx, record); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return plaintext, nil
}

func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	if err := s.tokens.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	metrics.TokensRevokedTotal.Inc()
	return nil
}

// Rotate replaces every token the user owns with a single fresh one. The swap
// is delegated to the repository as one atomic operation, so there is no
// window in which the user holds zero valid tokens.
func (s *TokenService) Rotate(ctx context.Context, user *domain.User) (string, error) {
	plaintext, record, err := mintToken(user.ID)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Replace(ctx, record); err != nil {
		return "", fmt.Errorf("rotate tokens: %w", err)
	}
	metrics.TokensRevokedTotal.Inc()
	return plaintext, nil
}

func (s *TokenService) Resolve(ctx context.Context, plaintext string) (*domain.User, error) {
	start := time.Now()

	user, err := s.resolve(ctx, plaintext)
	result := "ok"
	if err != nil {
		result = "unauthorized"
	}
	metrics.TokenResolveDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return user, err
}

func (s *TokenService) resolve(ctx context.Context, plaintext string) (*domain.User, error) {
	if plaintext == "" {
		return nil, domain.ErrUnauthorized
	}

	dg := digest(plaintext)
	token, err := s.tokens.FindByDigest(ctx, dg)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup token: %w", err)
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("load token owner: %w", err)
	}
	if !user.Active() {
		return nil, domain.ErrUnauthorized
	}

	// Best-effort bookkeeping; failures must not reject the request.
	if err := s.tokens.TouchLastUsed(ctx, dg); err != nil {
		s.logger.Debug().Err(err).Msg("touch token last_used failed")
	}
	if err := s.users.TouchLastSeen(ctx, user.ID); err != nil {
		s.logger.Debug().Err(err).Str("user_id", user.ID).Msg("touch last_seen failed")
	}

	return user, nil
}

// mintToken generates a fresh plaintext token and its server-side record.
func mintToken(userID string) (string, *domain.Token, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	plaintext := base64.RawURLEncoding.EncodeToString(buf)

	now := time.Now().UTC()
	return plaintext, &domain.Token{
		ID:         uuid.NewString(),
		UserID:     userID,
		Digest:     digest(plaintext),
		CreatedAt:  now,
		LastUsedAt: now,
	}, nil
}

func digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
