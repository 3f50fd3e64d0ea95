package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

var ErrNoActiveTransaction = errors.New("no active transaction")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return newUnitOfWork(f.store)
}

type stagedTransaction struct {
	snapshot        transaction.Snapshot
	expectedVersion int
	isNew           bool
}

type stagedLogistics struct {
	snapshot        logistics.Snapshot
	expectedVersion int
	isNew           bool
}

type stagedImpact struct {
	companyID kernel.UUID
	delta     impact.Delta
	at        time.Time
}

// UnitOfWork buffers writes and applies them atomically on Commit, re-checking
// every precondition under the store lock. Without Begin each write commits at once.
type UnitOfWork struct {
	store  *Store
	active bool

	transactions map[kernel.UUID]stagedTransaction
	logistics    map[kernel.UUID]stagedLogistics
	events       []logistics.TrackingEvent
	impacts      []stagedImpact
}

func newUnitOfWork(store *Store) *UnitOfWork {
	u := &UnitOfWork{store: store}
	u.reset()
	return u
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	u.active = true
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	defer func() {
		u.active = false
		u.reset()
	}()
	return u.flush()
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	u.active = false
	u.reset()
	return nil
}

func (u *UnitOfWork) TransactionRepository() ports.TransactionRepository {
	return &transactionRepository{uow: u}
}

func (u *UnitOfWork) LogisticsRepository() ports.LogisticsRepository {
	return &logisticsRepository{uow: u}
}

func (u *UnitOfWork) ImpactRepository() ports.ImpactRepository {
	return &impactRepository{uow: u}
}

func (u *UnitOfWork) reset() {
	u.transactions = make(map[kernel.UUID]stagedTransaction)
	u.logistics = make(map[kernel.UUID]stagedLogistics)
	u.events = nil
	u.impacts = nil
}

// written applies staged changes immediately when no transaction is active.
func (u *UnitOfWork) written() error {
	if u.active {
		return nil
	}
	defer u.reset()
	return u.flush()
}

func (u *UnitOfWork) flush() error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := u.checkLocked(); err != nil {
		return err
	}

	for id, st := range u.transactions {
		s.transactions[id] = st.snapshot
	}
	for id, st := range u.logistics {
		s.logistics[id] = st.snapshot
		s.logisticsByTx[st.snapshot.TransactionID] = id
	}
	for _, e := range u.events {
		s.events[e.LogisticsID()] = append(s.events[e.LogisticsID()], e)
	}
	for _, imp := range u.impacts {
		total, ok := s.impacts[imp.companyID]
		if !ok {
			total = impact.CompanyImpact{CompanyID: imp.companyID}
		}
		s.impacts[imp.companyID] = total.Apply(imp.delta, imp.at)
	}
	return nil
}

func (u *UnitOfWork) checkLocked() error {
	s := u.store
	for id, st := range u.transactions {
		current, exists := s.transactions[id]
		if st.isNew {
			if exists {
				return errs.NewValueIsInvalidErrorWithCause("transaction", fmt.Errorf("%s already exists", id))
			}
			continue
		}
		if !exists {
			return errs.NewObjectNotFoundError("transaction", id.String())
		}
		if current.Version != st.expectedVersion {
			return errs.NewConcurrencyConflictError("transaction", id.String(), st.expectedVersion)
		}
	}

	for id, st := range u.logistics {
		if st.isNew {
			if _, taken := s.logisticsByTx[st.snapshot.TransactionID]; taken {
				return errs.NewConcurrencyConflictError("logistics", st.snapshot.TransactionID.String(), 0)
			}
		} else if current, exists := s.logistics[id]; !exists {
			return errs.NewObjectNotFoundError("logistics", id.String())
		} else if current.Version != st.expectedVersion {
			return errs.NewConcurrencyConflictError("logistics", id.String(), st.expectedVersion)
		}
		if tn := st.snapshot.TrackingNumber; tn != nil {
			for otherID, other := range s.logistics {
				if otherID != id && other.TrackingNumber != nil && *other.TrackingNumber == *tn {
					return errs.NewValueIsInvalidErrorWithCause("tracking number", fmt.Errorf("%s is already in use", *tn))
				}
			}
		}
	}

	for _, e := range u.events {
		for _, existing := range s.events[e.LogisticsID()] {
			if existing.Sequence() == e.Sequence() {
				return errs.NewConcurrencyConflictError("logistics", e.LogisticsID().String(), e.Sequence()-1)
			}
		}
	}
	return nil
}
