// Package errs provides standardized error types for the marketplace service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation failures
//   - ObjectNotFoundError: a lookup that matched nothing
//   - ForbiddenError: the caller may not perform the action
//   - InvalidStateTransitionError: an edge outside an entity's state graph
//   - ConcurrencyConflictError: an optimistic write based on a stale version
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions (with a cause variant where it makes sense)
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is classifies the error
//
// Transport adapters classify errors only through the sentinels.
package errs
