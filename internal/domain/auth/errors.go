package auth

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrInvalidCredentials never says which of email, password or
	// verification state was wrong
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)
