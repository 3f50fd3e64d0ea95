// Package ports defines the contracts between the application core and its adapters:
// repositories, the unit of work and the external collaborators of the marketplace.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/transaction"
)

// TransactionRepository persists the ledger aggregate.
type TransactionRepository interface {
	// Add persists a new transaction.
	Add(ctx context.Context, aggregate *transaction.Transaction) error

	// Update writes aggregate only if the stored version still equals expectedVersion.
	// A mismatch returns errs.ConcurrencyConflictError and changes nothing; the caller
	// re-reads and decides whether to retry.
	Update(ctx context.Context, aggregate *transaction.Transaction, expectedVersion int) error

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*transaction.Transaction, error)
}
