package domain

import "errors"

var (
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrValidation is returned when request input is missing or malformed.
	ErrValidation = errors.New("validation failed")
)
