package commands

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/pkg/guard"
)

var ErrRecordTrackingEventCommandIsNotConstructed = errors.New(
	"RecordTrackingEventCommand must be created via NewRecordTrackingEventCommand constructor",
)

// RecordTrackingEventCommand is a carrier status update for one delivery.
// A zero occurredAt means "now".
type RecordTrackingEventCommand struct { //nolint:recvcheck //using for validation
	principal   identity.Principal
	logisticsID kernel.UUID
	status      logistics.Status
	occurredAt  time.Time
	location    string
	description string
	point       *kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewRecordTrackingEventCommand(
	principal identity.Principal,
	logisticsID kernel.UUID,
	status logistics.Status,
	occurredAt time.Time,
	location string,
	description string,
	point *kernel.GeoPoint,
) (RecordTrackingEventCommand, error) {
	var pointErr error
	if point != nil {
		pointErr = point.Validate()
	}

	if err := errors.Join(
		principal.Validate(),
		logisticsID.Validate(),
		status.Validate(),
		pointErr,
	); err != nil {
		return RecordTrackingEventCommand{}, err
	}

	return RecordTrackingEventCommand{
		principal:   principal,
		logisticsID: logisticsID,
		status:      status,
		occurredAt:  occurredAt,
		location:    strings.TrimSpace(location),
		description: strings.TrimSpace(description),
		point:       point,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RecordTrackingEventCommand) Validate() error {
	return c.guard.Validate(ErrRecordTrackingEventCommandIsNotConstructed)
}

func (c RecordTrackingEventCommand) Principal() identity.Principal {
	return c.principal
}

func (c RecordTrackingEventCommand) LogisticsID() kernel.UUID {
	return c.logisticsID
}

func (c RecordTrackingEventCommand) Status() logistics.Status {
	return c.status
}

func (c RecordTrackingEventCommand) OccurredAt() time.Time {
	return c.occurredAt
}

func (c RecordTrackingEventCommand) Location() string {
	return c.location
}

func (c RecordTrackingEventCommand) Description() string {
	return c.description
}

func (c RecordTrackingEventCommand) Point() *kernel.GeoPoint {
	return c.point
}
