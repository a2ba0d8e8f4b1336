package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("resource not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("service unavailable")
)

// UserError carries a message meant to be shown to the user as-is. Kind is
// one of the sentinel errors above.
type UserError struct {
	Kind    error
	Message string
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Kind }

func invalid(message string) error {
	return &UserError{Kind: ErrValidation, Message: message}
}

func notFound(message string) error {
	return &UserError{Kind: ErrNotFound, Message: message}
}

func conflict(message string) error {
	return &UserError{Kind: ErrConflict, Message: message}
}

func unavailable(message string) error {
	return &UserError{Kind: ErrUnavailable, Message: message}
}

// persistErr wraps a store failure while keeping its text visible.
func persistErr(action string, err error) error {
	return fmt.Errorf("%s: %w", action, err)
}
