package handler

import "github.com/chatwave/auth-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses. Fields is only present on validation failures.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// --- Request types ---

type registerRequest struct {
	Username             string `json:"username"              validate:"required,min=3,max=32"`
	Email                string `json:"email"                 validate:"required,email,max=254"`
	DisplayName          string `json:"display_name"          validate:"required,max=64"`
	PhoneNumber          string `json:"phone_number,omitempty" validate:"omitempty,max=32"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

// authResponse is returned by register and login: the user record plus the
// freshly issued bearer token. The plaintext token appears only here.
type authResponse struct {
	Message     string       `json:"message"`
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type pingResponse struct {
	OK bool `json:"ok"`
}
