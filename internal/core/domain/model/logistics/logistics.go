package logistics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var ErrLogisticsIsNotConstructed = errors.New("Logistics must be created via NewLogistics constructor")

// Details are the delivery coordinates agreed when a transaction is accepted.
type Details struct {
	PickupAddress   string
	DeliveryAddress string
	ContactName     string
	ContactPhone    string
}

// Logistics tracks the physical delivery of one accepted transaction.
//
// Invariants:
//   - exactly one record per transaction
//   - status follows the graph on Status and never regresses
//   - every status change appends exactly one TrackingEvent
//   - actualDeliveryAt is set only when entering Delivered
//   - once terminal, only admin audit notes may be appended
//   - every successful mutation increments version by one
type Logistics struct {
	id                  kernel.UUID
	transactionID       kernel.UUID
	carrier             string
	trackingNumber      *string
	status              Status
	details             Details
	cost                kernel.Money
	pickupAt            *time.Time
	estimatedDeliveryAt *time.Time
	actualDeliveryAt    *time.Time
	createdAt           time.Time
	updatedAt           time.Time
	log                 EventLog
	version             int

	isConstructed bool
}

// NewLogistics opens a Pending delivery for transactionID.
func NewLogistics(id, transactionID kernel.UUID, details Details, now time.Time) (*Logistics, error) {
	if err := errors.Join(id.Validate(), transactionID.Validate()); err != nil {
		return nil, err
	}
	return &Logistics{
		id:            id,
		transactionID: transactionID,
		status:        Pending,
		details:       trimDetails(details),
		createdAt:     now,
		updatedAt:     now,
		version:       1,
		isConstructed: true,
	}, nil
}

// Snapshot is the flat persisted form of Logistics, without its events.
type Snapshot struct {
	ID                  kernel.UUID
	TransactionID       kernel.UUID
	Carrier             string
	TrackingNumber      *string
	Status              Status
	Details             Details
	Cost                kernel.Money
	PickupAt            *time.Time
	EstimatedDeliveryAt *time.Time
	ActualDeliveryAt    *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int
}

// RestoreLogistics rebuilds a record and its event log from storage.
func RestoreLogistics(s Snapshot, events []TrackingEvent) (*Logistics, error) {
	if err := errors.Join(s.ID.Validate(), s.TransactionID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	if (s.Status == Delivered) != (s.ActualDeliveryAt != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("actual delivery", fmt.Errorf("inconsistent with status %s", s.Status))
	}
	if s.Version <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", s.Version))
	}
	return &Logistics{
		id:                  s.ID,
		transactionID:       s.TransactionID,
		carrier:             s.Carrier,
		trackingNumber:      s.TrackingNumber,
		status:              s.Status,
		details:             s.Details,
		cost:                s.Cost,
		pickupAt:            s.PickupAt,
		estimatedDeliveryAt: s.EstimatedDeliveryAt,
		actualDeliveryAt:    s.ActualDeliveryAt,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
		log:                 NewEventLog(events...),
		version:             s.Version,
		isConstructed:       true,
	}, nil
}

func (l *Logistics) Snapshot() Snapshot {
	return Snapshot{
		ID:                  l.id,
		TransactionID:       l.transactionID,
		Carrier:             l.carrier,
		TrackingNumber:      l.trackingNumber,
		Status:              l.status,
		Details:             l.details,
		Cost:                l.cost,
		PickupAt:            l.pickupAt,
		EstimatedDeliveryAt: l.estimatedDeliveryAt,
		ActualDeliveryAt:    l.actualDeliveryAt,
		CreatedAt:           l.createdAt,
		UpdatedAt:           l.updatedAt,
		Version:             l.version,
	}
}

func (l *Logistics) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLogisticsIsNotConstructed
	}
	return nil
}

func (l *Logistics) ID() kernel.UUID {
	return l.id
}

func (l *Logistics) TransactionID() kernel.UUID {
	return l.transactionID
}

func (l *Logistics) Carrier() string {
	return l.carrier
}

func (l *Logistics) TrackingNumber() *string {
	return l.trackingNumber
}

func (l *Logistics) Status() Status {
	return l.status
}

func (l *Logistics) Details() Details {
	return l.details
}

func (l *Logistics) Cost() kernel.Money {
	return l.cost
}

func (l *Logistics) PickupAt() *time.Time {
	return l.pickupAt
}

func (l *Logistics) EstimatedDeliveryAt() *time.Time {
	return l.estimatedDeliveryAt
}

func (l *Logistics) ActualDeliveryAt() *time.Time {
	return l.actualDeliveryAt
}

func (l *Logistics) CreatedAt() time.Time {
	return l.createdAt
}

func (l *Logistics) UpdatedAt() time.Time {
	return l.updatedAt
}

// Version is the optimistic concurrency token checked by LogisticsRepository.Update.
func (l *Logistics) Version() int {
	return l.version
}

// Events returns the tracking history ordered by timestamp, then insertion.
func (l *Logistics) Events() []TrackingEvent {
	return l.log.Events()
}

// AssignCarrier records who ships the goods. Allowed until the delivery is terminal;
// an empty tracking number clears it.
func (l *Logistics) AssignCarrier(
	carrier string,
	trackingNumber string,
	cost kernel.Money,
	estimatedDeliveryAt *time.Time,
	now time.Time,
) error {
	if l.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("carrier", fmt.Errorf("delivery is already %s", l.status))
	}
	carrier = strings.TrimSpace(carrier)
	if carrier == "" {
		return errs.NewValueIsRequiredError("carrier")
	}

	l.carrier = carrier
	l.trackingNumber = nil
	if tn := strings.TrimSpace(trackingNumber); tn != "" {
		l.trackingNumber = &tn
	}
	l.cost = cost
	l.estimatedDeliveryAt = estimatedDeliveryAt
	l.updatedAt = now
	l.version++
	return nil
}

// RecordStatus applies a carrier status update and appends the matching tracking event.
//
// Entering InTransit the first time stamps pickupAt; entering Delivered stamps
// actualDeliveryAt with the event time.
func (l *Logistics) RecordStatus(
	eventID kernel.UUID,
	next Status,
	occurredAt time.Time,
	location string,
	description string,
	point *kernel.GeoPoint,
	now time.Time,
) (TrackingEvent, error) {
	if !l.status.CanTransitionTo(next) {
		return TrackingEvent{}, errs.NewInvalidStateTransitionError("logistics", l.status.String(), next.String())
	}

	event, err := NewTrackingEvent(eventID, l.id, occurredAt, next.String(), location, description, point)
	if err != nil {
		return TrackingEvent{}, err
	}
	event = l.log.Append(event)

	switch next {
	case InTransit:
		if l.pickupAt == nil {
			at := event.OccurredAt()
			l.pickupAt = &at
		}
	case Delivered:
		at := event.OccurredAt()
		l.actualDeliveryAt = &at
	}
	l.status = next
	l.updatedAt = now
	l.version++
	return event, nil
}

// AppendAuditNote records a corrective note. It is the only write allowed on a
// terminal delivery and leaves the status untouched.
func (l *Logistics) AppendAuditNote(eventID kernel.UUID, description string, now time.Time) (TrackingEvent, error) {
	if strings.TrimSpace(description) == "" {
		return TrackingEvent{}, errs.NewValueIsRequiredError("description")
	}
	event, err := NewTrackingEvent(eventID, l.id, now, AuditLabel, "", description, nil)
	if err != nil {
		return TrackingEvent{}, err
	}
	event = l.log.Append(event)
	l.updatedAt = now
	l.version++
	return event, nil
}

// IsOverdue is a read-only classification: the estimate has passed and nothing was delivered.
func (l *Logistics) IsOverdue(now time.Time) bool {
	return IsOverdue(l.estimatedDeliveryAt, l.actualDeliveryAt, now)
}

// IsOverdue is shared by the aggregate and read models.
func IsOverdue(estimated, actual *time.Time, now time.Time) bool {
	return estimated != nil && actual == nil && now.After(*estimated)
}

func trimDetails(d Details) Details {
	return Details{
		PickupAddress:   strings.TrimSpace(d.PickupAddress),
		DeliveryAddress: strings.TrimSpace(d.DeliveryAddress),
		ContactName:     strings.TrimSpace(d.ContactName),
		ContactPhone:    strings.TrimSpace(d.ContactPhone),
	}
}
