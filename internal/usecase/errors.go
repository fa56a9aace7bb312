package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Fetch error taxonomy. Transient failures are retried by the
	// provider client; permanent ones fail the fetch immediately.
	ErrInvalidParams        = fmt.Errorf("%w: invalid fetch parameters", ErrInvalidInput)
	ErrRateLimitExceeded    = errors.New("local rate budget exhausted")
	ErrTransientFetch       = errors.New("transient fetch failure")
	ErrPermanentFetch       = errors.New("permanent fetch failure")
	ErrForeignKeyUnresolved = errors.New("foreign key unresolved")
)
