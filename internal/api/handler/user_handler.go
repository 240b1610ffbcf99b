package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatwave/auth-api/internal/core/ports"
)

// UserHandler serves the bearer-protected routes: logout, refresh, profile,
// and ping. All of them rely on the Auth middleware having resolved the user.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Logout revokes every token owned by the caller, ending all active sessions,
// not just the one presenting this request.
//
// @Summary      Logout all sessions
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), user); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Refresh atomically replaces all of the caller's tokens with a single new
// one. The token used to make this request stops resolving.
//
// @Summary      Refresh the bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  refreshResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /refresh [post]
func (h *UserHandler) Refresh(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	result, err := h.authService.Refresh(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, refreshResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

// Profile returns the authenticated user's record. The password hash is
// excluded by serialization, never by copying.
//
// @Summary      Get the authenticated user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /user [get]
func (h *UserHandler) Profile(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Profile(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

// Ping is an authenticated no-op used by clients to check token validity.
//
// @Summary      Authenticated ping
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  pingResponse
// @Failure      401  {object}  errorResponse
// @Router       /ping [get]
func (h *UserHandler) Ping(c echo.Context) error {
	if _, err := CurrentUser(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pingResponse{OK: true})
}
