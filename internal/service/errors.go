package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("request not found")
	ErrLinkExpired       = errors.New("link expired")
	ErrInvalidTransition = errors.New("invalid status transition")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
