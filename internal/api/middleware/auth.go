package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chatwave/auth-api/internal/api/handler"
	"github.com/chatwave/auth-api/internal/core/ports"
)

// Auth extracts the bearer token, resolves it to its owning user, and injects
// the user into the context. Every failure mode answers with the same generic
// 401 so callers cannot distinguish unknown, expired, and revoked tokens.
func Auth(resolver ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			user, err := resolver.Resolve(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			handler.SetCurrentUser(c, user)
			return next(c)
		}
	}
}
