package commands

import (
	"context"
	"errors"

	"marketplace/internal/pkg/errs"
)

// RetryOnConflict runs fn until it stops returning a concurrency conflict, at most
// attempts times. fn must re-read the aggregate on every call: handlers never retry
// on their own, the caller decides whether a lost race is worth another attempt.
//
// Example:
//
//	err := commands.RetryOnConflict(ctx, 3, func(ctx context.Context) error {
//	    _, err := handler.Handle(ctx, cmd)
//	    return err
//	})
func RetryOnConflict(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for range attempts {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn(ctx)
		if !errors.Is(err, errs.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}
