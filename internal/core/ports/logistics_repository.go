package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
)

// LogisticsRepository persists delivery records and their tracking events.
type LogisticsRepository interface {
	// Add persists a new record. A second record for the same transaction is a conflict.
	Add(ctx context.Context, aggregate *logistics.Logistics) error

	// Update persists the record's own columns only if the stored version still
	// equals expectedVersion, otherwise it returns errs.ErrConcurrencyConflict.
	// Events are written with AppendEvent. A tracking number already used by
	// another record is a validation error.
	Update(ctx context.Context, aggregate *logistics.Logistics, expectedVersion int) error

	// AppendEvent inserts one tracking event. Events are never updated or deleted;
	// a concurrent append that claimed the same sequence is a conflict.
	AppendEvent(ctx context.Context, event logistics.TrackingEvent) error

	// Get loads the record together with its event log.
	Get(ctx context.Context, id kernel.UUID) (*logistics.Logistics, error)

	// GetByTransaction loads the record spawned by a transaction's acceptance.
	GetByTransaction(ctx context.Context, transactionID kernel.UUID) (*logistics.Logistics, error)
}
