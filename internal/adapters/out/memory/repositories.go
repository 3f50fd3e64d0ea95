package memory

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"
)

type transactionRepository struct {
	uow *UnitOfWork
}

func (r *transactionRepository) Add(_ context.Context, aggregate *transaction.Transaction) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	r.uow.transactions[aggregate.ID()] = stagedTransaction{snapshot: aggregate.Snapshot(), isNew: true}
	return r.uow.written()
}

func (r *transactionRepository) Update(_ context.Context, aggregate *transaction.Transaction, expectedVersion int) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	id := aggregate.ID()

	if staged, ok := r.uow.transactions[id]; ok {
		if staged.snapshot.Version != expectedVersion {
			return errs.NewConcurrencyConflictError("transaction", id.String(), expectedVersion)
		}
		staged.snapshot = aggregate.Snapshot()
		r.uow.transactions[id] = staged
		return r.uow.written()
	}

	r.uow.store.mu.RLock()
	current, ok := r.uow.store.transactions[id]
	r.uow.store.mu.RUnlock()
	if !ok {
		return errs.NewObjectNotFoundError("transaction", id.String())
	}
	if current.Version != expectedVersion {
		return errs.NewConcurrencyConflictError("transaction", id.String(), expectedVersion)
	}

	r.uow.transactions[id] = stagedTransaction{snapshot: aggregate.Snapshot(), expectedVersion: expectedVersion}
	return r.uow.written()
}

func (r *transactionRepository) Get(_ context.Context, id kernel.UUID) (*transaction.Transaction, error) {
	if staged, ok := r.uow.transactions[id]; ok {
		return transaction.RestoreTransaction(staged.snapshot)
	}

	r.uow.store.mu.RLock()
	snap, ok := r.uow.store.transactions[id]
	r.uow.store.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("transaction", id.String())
	}
	return transaction.RestoreTransaction(snap)
}

type logisticsRepository struct {
	uow *UnitOfWork
}

func (r *logisticsRepository) Add(_ context.Context, aggregate *logistics.Logistics) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	r.uow.logistics[aggregate.ID()] = stagedLogistics{snapshot: aggregate.Snapshot(), isNew: true}
	return r.uow.written()
}

func (r *logisticsRepository) Update(_ context.Context, aggregate *logistics.Logistics, expectedVersion int) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	id := aggregate.ID()

	if staged, ok := r.uow.logistics[id]; ok {
		if staged.snapshot.Version != expectedVersion {
			return errs.NewConcurrencyConflictError("logistics", id.String(), expectedVersion)
		}
		staged.snapshot = aggregate.Snapshot()
		r.uow.logistics[id] = staged
		return r.uow.written()
	}

	r.uow.store.mu.RLock()
	current, ok := r.uow.store.logistics[id]
	r.uow.store.mu.RUnlock()
	if !ok {
		return errs.NewObjectNotFoundError("logistics", id.String())
	}
	if current.Version != expectedVersion {
		return errs.NewConcurrencyConflictError("logistics", id.String(), expectedVersion)
	}

	r.uow.logistics[id] = stagedLogistics{snapshot: aggregate.Snapshot(), expectedVersion: expectedVersion}
	return r.uow.written()
}

func (r *logisticsRepository) AppendEvent(_ context.Context, event logistics.TrackingEvent) error {
	r.uow.events = append(r.uow.events, event)
	return r.uow.written()
}

func (r *logisticsRepository) Get(_ context.Context, id kernel.UUID) (*logistics.Logistics, error) {
	return r.load(id)
}

func (r *logisticsRepository) GetByTransaction(_ context.Context, transactionID kernel.UUID) (*logistics.Logistics, error) {
	for id, staged := range r.uow.logistics {
		if staged.snapshot.TransactionID.IsEqual(transactionID) {
			return r.load(id)
		}
	}

	r.uow.store.mu.RLock()
	id, ok := r.uow.store.logisticsByTx[transactionID]
	r.uow.store.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("logistics", transactionID.String())
	}
	return r.load(id)
}

func (r *logisticsRepository) load(id kernel.UUID) (*logistics.Logistics, error) {
	r.uow.store.mu.RLock()
	snap, stored := r.uow.store.logistics[id]
	events := append([]logistics.TrackingEvent(nil), r.uow.store.events[id]...)
	r.uow.store.mu.RUnlock()

	if staged, ok := r.uow.logistics[id]; ok {
		snap, stored = staged.snapshot, true
	}
	if !stored {
		return nil, errs.NewObjectNotFoundError("logistics", id.String())
	}
	for _, e := range r.uow.events {
		if e.LogisticsID().IsEqual(id) {
			events = append(events, e)
		}
	}
	return logistics.RestoreLogistics(snap, events)
}

type impactRepository struct {
	uow *UnitOfWork
}

func (r *impactRepository) Accumulate(_ context.Context, companyID kernel.UUID, delta impact.Delta, now time.Time) error {
	if err := companyID.Validate(); err != nil {
		return err
	}
	r.uow.impacts = append(r.uow.impacts, stagedImpact{companyID: companyID, delta: delta, at: now})
	return r.uow.written()
}
