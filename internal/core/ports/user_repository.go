package ports

import (
	"context"

	"github.com/chatwave/auth-api/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts. The store
// is responsible for serializing concurrent uniqueness checks on username and
// email through its own unique indexes.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Delete removes a user row. Used to compensate a registration whose
	// token issuance failed, so no partial user+token state survives.
	Delete(ctx context.Context, id string) error
	// TouchLastSeen bumps last_seen to now. Best-effort: callers may ignore
	// the returned error.
	TouchLastSeen(ctx context.Context, id string) error
}
