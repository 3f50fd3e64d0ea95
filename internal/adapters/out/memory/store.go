// Package memory is an in-process implementation of the repository and collaborator
// ports. It keeps the same semantics as the postgres adapters (version compare-and-swap,
// unique tracking numbers, one logistics record per transaction, append-only events)
// and backs the unit tests of the application layer.
package memory

import (
	"slices"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/transaction"
)

// Store holds every table of the in-memory adapter behind one lock.
type Store struct {
	mu sync.RWMutex

	transactions  map[kernel.UUID]transaction.Snapshot
	logistics     map[kernel.UUID]logistics.Snapshot
	logisticsByTx map[kernel.UUID]kernel.UUID
	events        map[kernel.UUID][]logistics.TrackingEvent
	impacts       map[kernel.UUID]impact.CompanyImpact
	notifications map[kernel.UUID]*notification.Notification
	listings      map[kernel.UUID]transaction.Listing
	emails        map[kernel.UUID]string
}

func NewStore() *Store {
	return &Store{
		transactions:  make(map[kernel.UUID]transaction.Snapshot),
		logistics:     make(map[kernel.UUID]logistics.Snapshot),
		logisticsByTx: make(map[kernel.UUID]kernel.UUID),
		events:        make(map[kernel.UUID][]logistics.TrackingEvent),
		impacts:       make(map[kernel.UUID]impact.CompanyImpact),
		notifications: make(map[kernel.UUID]*notification.Notification),
		listings:      make(map[kernel.UUID]transaction.Listing),
		emails:        make(map[kernel.UUID]string),
	}
}

// PutListing seeds the catalog.
func (s *Store) PutListing(l transaction.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[l.ProductID] = l
}

// PutEmail seeds the user directory.
func (s *Store) PutEmail(userID kernel.UUID, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails[userID] = email
}

// TransactionSnapshot returns the committed state of a transaction.
func (s *Store) TransactionSnapshot(id kernel.UUID) (transaction.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.transactions[id]
	return snap, ok
}

// LogisticsFor returns the committed logistics record of a transaction.
func (s *Store) LogisticsFor(transactionID kernel.UUID) (*logistics.Logistics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.logisticsByTx[transactionID]
	if !ok {
		return nil, false
	}
	l, err := logistics.RestoreLogistics(s.logistics[id], s.events[id])
	if err != nil {
		return nil, false
	}
	return l, true
}

// CompanyImpact returns the committed totals of a company.
func (s *Store) CompanyImpact(companyID kernel.UUID) (impact.CompanyImpact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total, ok := s.impacts[companyID]
	return total, ok
}

// NotificationsOf returns the stored notifications of a user, oldest first.
func (s *Store) NotificationsOf(userID kernel.UUID) []*notification.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*notification.Notification
	for _, n := range s.notifications {
		if n.BelongsTo(userID) {
			out = append(out, clone(n))
		}
	}
	sortByCreated(out)
	return out
}

func sortByCreated(ns []*notification.Notification) {
	slices.SortStableFunc(ns, func(a, b *notification.Notification) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
}

func clone(n *notification.Notification) *notification.Notification {
	var readAt *time.Time
	if n.ReadAt() != nil {
		at := *n.ReadAt()
		readAt = &at
	}
	c, _ := notification.RestoreNotification(
		n.ID(), n.UserID(), n.Type(), n.Title(), n.Message(), n.Data(), n.Priority(), n.CreatedAt(), readAt,
	)
	return c
}
