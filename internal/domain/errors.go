package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials provided")
	// ErrUserAlreadyExists matches any *UserAlreadyExistsError via errors.Is.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized indicates a missing, malformed or rejected bearer token.
	ErrUnauthorized = errors.New("unauthorized access")
	// ErrStockMoveNotFound indicates the requested stock move does not exist.
	ErrStockMoveNotFound = errors.New("stock move not found")
	// ErrInvalidReference is returned when a stock move reference is out of bounds.
	ErrInvalidReference = errors.New("reference must be between 3 and 60 characters")
	// ErrStorageUnavailable is returned when exports are requested without object storage.
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

// UserAlreadyExistsError carries the conflicting email, or the conflicting
// id when the email itself is free.
type UserAlreadyExistsError struct {
	ID    string
	Email string
}

func (e *UserAlreadyExistsError) Error() string {
	if e.Email == "" {
		return fmt.Sprintf("user with id %s already exists", e.ID)
	}
	return fmt.Sprintf("user with email %s already exists", e.Email)
}

func (e *UserAlreadyExistsError) Is(target error) bool {
	return target == ErrUserAlreadyExists
}

// ValidationError reports a violated entity invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
