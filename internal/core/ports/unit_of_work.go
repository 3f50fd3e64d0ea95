package ports

import (
	"context"
)

// UnitOfWorkFactory hands out one UnitOfWork per command. Instances are never shared.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the boundary of one ledger write: a transition, the logistics
// record it spawns and the impact totals it feeds commit or roll back together.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit and Rollback fail when no transaction is open, so a deferred
	// Rollback after Commit is harmless.
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// The repositories below write through the open transaction, or straight
	// to the store when Begin has not been called.
	TransactionRepository() TransactionRepository
	LogisticsRepository() LogisticsRepository
	ImpactRepository() ImpactRepository
}
