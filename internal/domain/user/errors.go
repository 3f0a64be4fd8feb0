package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrTokenNotFound covers unknown, used and expired tokens alike
	ErrTokenNotFound = errors.New("token not found or expired")
)
