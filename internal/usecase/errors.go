package usecase

import "errors"

// Sentinel errors the HTTP layer maps onto response statuses. Anything not
// wrapping one of these surfaces as an internal error.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
