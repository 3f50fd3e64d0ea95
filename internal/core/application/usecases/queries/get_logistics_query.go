package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetLogisticsQueryIsNotConstructed = errors.New(
	"GetLogisticsQuery must be created via NewGetLogisticsQuery constructor",
)

// GetLogisticsQuery reads the delivery of a transaction with its event log.
// Participants, carrier integrations and admins may read it.
type GetLogisticsQuery struct { //nolint:recvcheck //using for validation
	principal     identity.Principal
	transactionID kernel.UUID
	now           time.Time

	guard guard.ConstructorGuard
}

// NewGetLogisticsQuery builds the query; now is the reference time of the overdue flag.
func NewGetLogisticsQuery(principal identity.Principal, transactionID kernel.UUID, now time.Time) (GetLogisticsQuery, error) {
	if err := errors.Join(principal.Validate(), transactionID.Validate()); err != nil {
		return GetLogisticsQuery{}, err
	}
	if now.IsZero() {
		now = time.Now()
	}
	return GetLogisticsQuery{
		principal:     principal,
		transactionID: transactionID,
		now:           now.UTC(),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetLogisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetLogisticsQueryIsNotConstructed)
}

func (q GetLogisticsQuery) Principal() identity.Principal {
	return q.principal
}

func (q GetLogisticsQuery) TransactionID() kernel.UUID {
	return q.transactionID
}

func (q GetLogisticsQuery) Now() time.Time {
	return q.now
}

// LogisticsView is a delivery record with its events in log order.
type LogisticsView struct {
	ID                  kernel.UUID
	TransactionID       kernel.UUID
	Carrier             string
	TrackingNumber      *string
	Status              string
	PickupAddress       string
	DeliveryAddress     string
	ContactName         string
	ContactPhone        string
	Cost                decimal.Decimal
	PickupAt            *time.Time
	EstimatedDeliveryAt *time.Time
	ActualDeliveryAt    *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Overdue             bool
	Events              []TrackingEventView
}

type TrackingEventView struct {
	ID          kernel.UUID
	Sequence    int
	OccurredAt  time.Time
	Status      string
	Location    string
	Description string
	Lat         *float64
	Lng         *float64
}
