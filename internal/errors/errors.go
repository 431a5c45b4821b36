package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions the API can surface to callers.
// Services return these (optionally wrapped with detail); the HTTP mapper
// translates them into status codes.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDuplicateEdge   = errors.New("already recorded")
	ErrQuotaExhausted  = errors.New("quota exhausted")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrStorageFailure  = errors.New("storage failure")
)

// InvalidArgument wraps ErrInvalidArgument with a caller-facing message.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// Forbidden wraps ErrForbidden with a caller-facing message.
func Forbidden(msg string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, msg)
}

// NotFound wraps ErrNotFound with a caller-facing message.
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}
