package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrListOverdueDeliveriesQueryIsNotConstructed = errors.New(
	"ListOverdueDeliveriesQuery must be created via NewListOverdueDeliveriesQuery constructor",
)

const (
	DefaultOverdueLimit = 100
	MaxOverdueLimit     = 1000
)

// ListOverdueDeliveriesQuery lists deliveries whose estimate has passed without an
// actual delivery, oldest estimate first. It classifies; it never changes a status.
// Access is restricted at the transport layer to carrier integrations and admins.
type ListOverdueDeliveriesQuery struct { //nolint:recvcheck //using for validation
	now   time.Time
	limit int

	guard guard.ConstructorGuard
}

func NewListOverdueDeliveriesQuery(now time.Time, limit int) ListOverdueDeliveriesQuery {
	if now.IsZero() {
		now = time.Now()
	}
	switch {
	case limit <= 0:
		limit = DefaultOverdueLimit
	case limit > MaxOverdueLimit:
		limit = MaxOverdueLimit
	}
	return ListOverdueDeliveriesQuery{
		now:   now.UTC(),
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}
}

func (q ListOverdueDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListOverdueDeliveriesQueryIsNotConstructed)
}

func (q ListOverdueDeliveriesQuery) Now() time.Time {
	return q.now
}

func (q ListOverdueDeliveriesQuery) Limit() int {
	return q.limit
}

type OverdueDelivery struct {
	LogisticsID         kernel.UUID
	TransactionID       kernel.UUID
	Carrier             string
	TrackingNumber      *string
	Status              string
	EstimatedDeliveryAt time.Time
}

// OverdueDeliveries holds up to Limit items and the total number of overdue deliveries.
type OverdueDeliveries struct {
	Items []OverdueDelivery
	Total int64
}
