package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnauthorized = errors.New("unauthorized")
var ErrUserExists = errors.New("user already exists")
var ErrUsernameTaken = errors.New("username already taken")
var ErrEmailTaken = errors.New("email already taken")
var ErrUserNotFound = errors.New("user not found")
var ErrTokenNotFound = errors.New("token not found")

// ValidationError carries field-level registration/login failures. Fields maps
// a field name to a human-readable reason.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a failure for field unless one is already present, so the first
// detected problem per field wins.
func (e *ValidationError) Add(field, reason string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = reason
	}
}

// Empty reports whether no failures were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(msgs, "; ")
}
