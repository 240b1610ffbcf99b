package ports

import (
	"context"

	"github.com/chatwave/auth-api/internal/core/domain"
)

// TokenRepository persists token digests. Implementations must make
// DeleteByUser and Replace atomic with respect to concurrent lookups, so a
// refresh never exposes a window in which the user holds zero valid tokens.
type TokenRepository interface {
	Insert(ctx context.Context, token *domain.Token) error
	// FindByDigest returns the token record for a digest, or
	// domain.ErrTokenNotFound when absent or expired.
	FindByDigest(ctx context.Context, digest string) (*domain.Token, error)
	// DeleteByUser removes every token owned by the user. Idempotent.
	DeleteByUser(ctx context.Context, userID string) error
	// Replace atomically removes every token owned by the user and inserts
	// the given one.
	Replace(ctx context.Context, token *domain.Token) error
	// TouchLastUsed bumps last_used_at to now. Best-effort.
	TouchLastUsed(ctx context.Context, digest string) error
}
