package errs

import (
	"errors"
	"fmt"
)

var ErrConcurrencyConflict = errors.New("concurrency conflict")

// ConcurrencyConflictError reports a write based on a stale read.
// The caller is expected to re-read and decide whether to retry.
type ConcurrencyConflictError struct {
	Entity          string
	ID              any
	ExpectedVersion int
}

func NewConcurrencyConflictError(entity string, id any, expectedVersion int) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{
		Entity:          entity,
		ID:              id,
		ExpectedVersion: expectedVersion,
	}
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s: %s %v was modified since version %d", ErrConcurrencyConflict, e.Entity, e.ID, e.ExpectedVersion)
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}
