package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/chatwave/auth-api/internal/api/handler"
	"github.com/chatwave/auth-api/internal/core/domain"
)

type stubResolver struct {
	resolveFn func(ctx context.Context, plaintext string) (*domain.User, error)
}

func (s *stubResolver) Issue(context.Context, *domain.User) (string, error) { return "", nil }
func (s *stubResolver) RevokeAll(context.Context, string) error             { return nil }
func (s *stubResolver) Rotate(context.Context, *domain.User) (string, error) {
	return "", nil
}
func (s *stubResolver) Resolve(ctx context.Context, plaintext string) (*domain.User, error) {
	return s.resolveFn(ctx, plaintext)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{
		resolveFn: func(_ context.Context, plaintext string) (*domain.User, error) {
			if plaintext != "good-token" {
				t.Fatalf("unexpected token: %s", plaintext)
			}
			return &domain.User{ID: "user_1", Username: "alice"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(resolver)
	h := mw(func(c echo.Context) error {
		called = true
		user, err := handler.CurrentUser(c)
		if err != nil {
			t.Fatalf("user not injected: %v", err)
		}
		if user.ID != "user_1" {
			t.Fatalf("wrong user injected: %s", user.ID)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{
		resolveFn: func(context.Context, string) (*domain.User, error) {
			t.Fatalf("resolver should not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(resolver)
	h := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{
		resolveFn: func(context.Context, string) (*domain.User, error) {
			t.Fatalf("resolver should not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(resolver)
	h := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{
		resolveFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer revoked-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(resolver)
	h := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
