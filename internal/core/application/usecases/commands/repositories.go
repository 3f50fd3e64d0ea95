// Package commands contains the operations that change marketplace state.
// Every handler validates its command, runs inside one unit of work and hands
// the committed aggregates to the hooks once the commit succeeded.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces scoped to what each handler touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	TransactionRepoFactory interface {
		TransactionRepository() ports.TransactionRepository
	}

	LogisticsRepoFactory interface {
		LogisticsRepository() ports.LogisticsRepository
	}

	ImpactRepoFactory interface {
		ImpactRepository() ports.ImpactRepository
	}

	// TransactionUoW is used by commands that only modify transactions.
	TransactionUoW interface {
		TxManager
		TransactionRepoFactory
	}

	TransactionUoWFactory interface {
		Create() TransactionUoW
	}

	// LogisticsUoW is used by carrier commands. Transactions are only read, to
	// address notifications to the parties.
	LogisticsUoW interface {
		TxManager
		TransactionRepoFactory
		LogisticsRepoFactory
	}

	LogisticsUoWFactory interface {
		Create() LogisticsUoW
	}

	// UoW spans every aggregate a transition can write: the transaction itself,
	// the logistics record spawned on acceptance and the company impact totals
	// accumulated on completion.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   txRepo := uow.TransactionRepository()
	//   logisticsRepo := uow.LogisticsRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		TransactionRepoFactory
		LogisticsRepoFactory
		ImpactRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
