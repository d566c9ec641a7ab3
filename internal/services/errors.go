package services

import (
	"errors"
	"fmt"

	"gestionale/internal/repositories"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateDocument = errors.New("document already imported")
	ErrAIUnavailable     = errors.New("ai assistant unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
)

// invalid builds an ErrInvalidInput carrying a user-facing reason.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFound wraps ErrNotFound with the message shown to the user.
func notFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

func conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// fromStore translates storage sentinels into service sentinels.
func fromStore(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return notFound(notFoundMsg)
	case errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}
