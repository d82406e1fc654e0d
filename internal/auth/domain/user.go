package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MinPasswordLength is the shortest password accepted at signup and login.
const MinPasswordLength = 8

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("invalid password")
)

// User is the identity record held by a user store. Email is the unique
// lookup key and never changes once the record has been stored.
type User struct {
	Email       string
	Password    string // compared verbatim by the store
	Requires2FA bool
}

// ParseEmail trims and validates an identity key supplied by a client.
func ParseEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidEmail)
	}
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: %q is missing '@'", ErrInvalidEmail, email)
	}
	return email, nil
}

// ParsePassword validates a password supplied by a client. Passwords are not
// trimmed, whitespace is part of the secret.
func ParsePassword(raw string) (string, error) {
	if len(raw) < MinPasswordLength {
		return "", fmt.Errorf("%w: must be at least %d characters", ErrInvalidPassword, MinPasswordLength)
	}
	return raw, nil
}
