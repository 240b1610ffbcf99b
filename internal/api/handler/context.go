package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatwave/auth-api/internal/core/domain"
)

// userContextKey is where the Auth middleware stores the resolved user.
const userContextKey = "auth_user"

// SetCurrentUser injects the resolved user into the echo context. Exposed for
// the Auth middleware and handler tests.
func SetCurrentUser(c echo.Context, user *domain.User) {
	c.Set(userContextKey, user)
}

// CurrentUser extracts the user injected by the Auth middleware. Presence
// proves the middleware ran; a protected handler reached without it is a
// wiring bug answered with 401, never a panic.
func CurrentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(userContextKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return user, nil
}
