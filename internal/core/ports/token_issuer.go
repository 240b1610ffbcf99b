package ports

import (
	"context"

	"github.com/chatwave/auth-api/internal/core/domain"
)

// TokenIssuer mints, revokes, and resolves opaque bearer tokens. The plaintext
// returned by Issue and Rotate is shown exactly once; only a digest is kept
// server-side.
type TokenIssuer interface {
	Issue(ctx context.Context, user *domain.User) (string, error)
	// RevokeAll invalidates every token owned by the user. Idempotent.
	RevokeAll(ctx context.Context, userID string) error
	// Rotate revokes every existing token and issues a single new one as one
	// atomic operation.
	Rotate(ctx context.Context, user *domain.User) (string, error)
	// Resolve maps a presented plaintext token to its owning user. Returns
	// domain.ErrUnauthorized for unknown, expired, or disabled-user tokens.
	Resolve(ctx context.Context, plaintext string) (*domain.User, error)
}
