package logistics

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// AuditLabel marks a corrective note appended by an admin. It never changes the status.
const AuditLabel = "AUDIT"

// TrackingEvent is one immutable entry of a delivery's event log.
// Sequence is the insertion order within the log and breaks timestamp ties.
type TrackingEvent struct {
	id          kernel.UUID
	logisticsID kernel.UUID
	sequence    int
	occurredAt  time.Time
	location    string
	label       string
	description string
	point       *kernel.GeoPoint
}

// NewTrackingEvent validates and builds an event. Use EventLog.Append to assign
// the sequence; a fresh event carries sequence 0.
func NewTrackingEvent(
	id kernel.UUID,
	logisticsID kernel.UUID,
	occurredAt time.Time,
	label string,
	location string,
	description string,
	point *kernel.GeoPoint,
) (TrackingEvent, error) {
	var labelErr, timeErr, pointErr error
	label = strings.TrimSpace(label)
	if label == "" {
		labelErr = errs.NewValueIsRequiredError("status label")
	}
	if occurredAt.IsZero() {
		timeErr = errs.NewValueIsRequiredError("timestamp")
	}
	if point != nil {
		pointErr = point.Validate()
	}
	if err := errors.Join(id.Validate(), logisticsID.Validate(), labelErr, timeErr, pointErr); err != nil {
		return TrackingEvent{}, err
	}

	return TrackingEvent{
		id:          id,
		logisticsID: logisticsID,
		occurredAt:  occurredAt.UTC(),
		location:    strings.TrimSpace(location),
		label:       label,
		description: strings.TrimSpace(description),
		point:       point,
	}, nil
}

// RestoreTrackingEvent rebuilds a persisted event including its sequence.
func RestoreTrackingEvent(
	id kernel.UUID,
	logisticsID kernel.UUID,
	sequence int,
	occurredAt time.Time,
	label string,
	location string,
	description string,
	point *kernel.GeoPoint,
) (TrackingEvent, error) {
	e, err := NewTrackingEvent(id, logisticsID, occurredAt, label, location, description, point)
	if err != nil {
		return TrackingEvent{}, err
	}
	if sequence < 1 {
		return TrackingEvent{}, errs.NewValueIsOutOfRangeError("sequence", sequence, 1, "unbounded")
	}
	e.sequence = sequence
	return e, nil
}

func (e TrackingEvent) ID() kernel.UUID {
	return e.id
}

func (e TrackingEvent) LogisticsID() kernel.UUID {
	return e.logisticsID
}

func (e TrackingEvent) Sequence() int {
	return e.sequence
}

func (e TrackingEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func (e TrackingEvent) Location() string {
	return e.location
}

// Label is the status name the event recorded, or AuditLabel.
func (e TrackingEvent) Label() string {
	return e.label
}

func (e TrackingEvent) Description() string {
	return e.description
}

func (e TrackingEvent) Point() *kernel.GeoPoint {
	return e.point
}
