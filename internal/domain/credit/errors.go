package credit

import "errors"

var (
	// ErrInvalidAmount is returned when amount is <= 0
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	ErrInvalidType      = errors.New("invalid credit entry type")
	ErrInvalidReference = errors.New("invalid credit entry reference")

	// ErrUserNotFound is returned when user doesn't exist
	ErrUserNotFound = errors.New("user not found")
)
