package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chatwave/auth-api/internal/core/domain"
)

func seedUser(t *testing.T, users *stubUserRepo) *domain.User {
	t.Helper()
	user, err := users.Create(context.Background(), &domain.User{
		Username:    "alice",
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Status:      domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestTokenService_IssueAndResolve(t *testing.T) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := NewTokenService(tokens, users, zerolog.Nop())
	user := seedUser(t, users)

	plaintext, err := svc.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if plaintext == "" {
		t.Fatalf("expected plaintext token")
	}
	if _, ok := tokens.tokens[plaintext]; ok {
		t.Fatalf("repository must never see the plaintext token")
	}

	resolved, err := svc.Resolve(context.Background(), plaintext)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("resolved user %s, want %s", resolved.ID, user.ID)
	}
}

func TestTokenService_Issue_UniquePlaintexts(t *testing.T) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := NewTokenService(tokens, users, zerolog.Nop())
	user := seedUser(t, users)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		plaintext, err := svc.Issue(context.Background(), user)
		if err != nil {
			t.Fatalf("issue failed: %v", err)
		}
		if seen[plaintext] {
			t.Fatalf("duplicate plaintext token issued")
		}
		seen[plaintext] = true
	}
}

func TestTokenService_Resolve_Unknown(t *testing.T) {
	users := newStubUserRepo()
	svc := NewTokenService(newStubTokenRepo(), users, zerolog.Nop())

	for _, plaintext := range []string{"", "garbage", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"} {
		if _, err := svc.Resolve(context.Background(), plaintext); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", plaintext, err)
		}
	}
}

func TestTokenService_Resolve_DeletedOwner(t *testing.T) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := NewTokenService(tokens, users, zerolog.Nop())
	user := seedUser(t, users)

	plaintext, err := svc.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if err := users.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), plaintext); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for orphaned token, got %v", err)
	}
}

func TestTokenService_Resolve_DisabledOwner(t *testing.T) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := NewTokenService(tokens, users, zerolog.Nop())
	user := seedUser(t, users)

	plaintext, err := svc.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	users.users[user.ID].Status = domain.StatusDisabled

	if _, err := svc.Resolve(context.Background(), plaintext); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for disabled owner, got %v", err)
	}
}

func TestTokenService_RevokeAll(t *testing.T) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := NewTokenService(tokens, users, zerolog.Nop())
	user := seedUser(t, users)

	first, _ := svc.Issue(context.Background(), user)
	second, _ := svc.Issue(context.Background(), user)

	if err := svc.RevokeAll(context.Background(), user.ID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	for _, plaintext := range []string{first, second} {
		if _, err := svc.Resolve(context.Background(), plaintext); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized after revoke, got %v", err)
		}
	}

	// Revoking again with nothing outstanding succeeds.
	if err := svc.RevokeAll(context.Background(), user.ID); err != nil {
		t.Fatalf("idempotent revoke failed: %v", err)
	}
}

func TestTokenService_Rotate(t *testing.T) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := NewTokenService(tokens, users, zerolog.Nop())
	user := seedUser(t, users)

	old, _ := svc.Issue(context.Background(), user)
	fresh, err := svc.Rotate(context.Background(), user)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), old); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("old token must not resolve, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), fresh); err != nil {
		t.Fatalf("fresh token must resolve, got %v", err)
	}
	if n := tokens.countForUser(user.ID); n != 1 {
		t.Fatalf("expected one token after rotate, got %d", n)
	}
}
