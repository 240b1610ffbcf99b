package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/chatwave/auth-api/internal/core/domain"
)

// stubUserRepo is an in-memory UserRepository enforcing the same uniqueness
// rules as the Mongo implementation.
type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User // by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}

	copy := cloneUser(user)
	copy.ID = "user_" + strconv.Itoa(r.nextID)
	r.nextID++
	now := time.Now().UTC()
	copy.CreatedAt = now
	copy.UpdatedAt = now
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) TouchLastSeen(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		now := time.Now().UTC()
		u.LastSeen = &now
	}
	return nil
}

// stubTokenRepo is an in-memory TokenRepository with the same atomicity
// guarantees as the Redis implementation.
type stubTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.Token // by digest
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]*domain.Token)}
}

func (r *stubTokenRepo) Insert(_ context.Context, token *domain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *token
	r.tokens[token.Digest] = &copy
	return nil
}

func (r *stubTokenRepo) FindByDigest(_ context.Context, digest string) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[digest]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, domain.ErrTokenNotFound
}

func (r *stubTokenRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for dg, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, dg)
		}
	}
	return nil
}

func (r *stubTokenRepo) Replace(_ context.Context, token *domain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for dg, t := range r.tokens {
		if t.UserID == token.UserID {
			delete(r.tokens, dg)
		}
	}
	copy := *token
	r.tokens[token.Digest] = &copy
	return nil
}

func (r *stubTokenRepo) TouchLastUsed(_ context.Context, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[digest]; ok {
		t.LastUsedAt = time.Now().UTC()
	}
	return nil
}

func (r *stubTokenRepo) countForUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}
