package commands

import (
	"context"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/transaction"
)

// TransactionHooks receive transactions after their changes were committed.
// Implementations must not fail the caller: delivery problems are theirs to log.
// Handlers pass a context that keeps the request's values but not its cancellation,
// so a client hanging up after the commit does not lose the notifications.
type TransactionHooks interface {
	TransactionRequested(ctx context.Context, tx *transaction.Transaction, actor identity.Principal)
	TransactionTransitioned(
		ctx context.Context,
		tx *transaction.Transaction,
		from transaction.Status,
		actor identity.Principal,
		spawned *logistics.Logistics,
	)
	TermsChanged(ctx context.Context, tx *transaction.Transaction, actor identity.Principal)
}

// LogisticsHooks receive delivery updates after they were committed.
type LogisticsHooks interface {
	LogisticsUpdated(
		ctx context.Context,
		tx *transaction.Transaction,
		record *logistics.Logistics,
		event logistics.TrackingEvent,
	)
}

// NopHooks ignores every notification.
type NopHooks struct{}

func (NopHooks) TransactionRequested(context.Context, *transaction.Transaction, identity.Principal) {}

func (NopHooks) TransactionTransitioned(
	context.Context, *transaction.Transaction, transaction.Status, identity.Principal, *logistics.Logistics,
) {
}

func (NopHooks) TermsChanged(context.Context, *transaction.Transaction, identity.Principal) {}

func (NopHooks) LogisticsUpdated(
	context.Context, *transaction.Transaction, *logistics.Logistics, logistics.TrackingEvent,
) {
}
