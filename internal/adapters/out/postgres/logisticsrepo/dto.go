// Package logisticsrepo persists delivery records and their append-only tracking
// events with GORM.
package logisticsrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unique index names, matched against PostgreSQL constraint violations.
const (
	TransactionIndex    = "idx_logistics_transaction"
	TrackingNumberIndex = "idx_logistics_tracking_number"
	EventSequenceIndex  = "idx_tracking_events_sequence"
)

// LogisticsDTO is the row of the logistics table. TransactionID is unique: a
// transaction spawns at most one delivery.
type LogisticsDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_logistics_transaction"`
	Carrier             string          `gorm:"type:varchar(100);not null;default:''"`
	TrackingNumber      *string         `gorm:"type:varchar(100);uniqueIndex:idx_logistics_tracking_number"`
	Status              string          `gorm:"type:varchar(16);not null;index"`
	Details             DetailsDTO      `gorm:"embedded"`
	Cost                decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	PickupAt            *time.Time
	EstimatedDeliveryAt *time.Time `gorm:"index"`
	ActualDeliveryAt    *time.Time
	CreatedAt           time.Time          `gorm:"not null;autoCreateTime:false"`
	UpdatedAt           time.Time          `gorm:"not null;autoUpdateTime:false"`
	Version             int                `gorm:"type:int;not null;default:1"`
	Events              []TrackingEventDTO `gorm:"foreignKey:LogisticsID;constraint:OnDelete:CASCADE"`
}

func (LogisticsDTO) TableName() string {
	return "logistics"
}

// DetailsDTO holds the addresses agreed at acceptance.
type DetailsDTO struct {
	PickupAddress   string `gorm:"type:text;not null;default:''"`
	DeliveryAddress string `gorm:"type:text;not null;default:''"`
	ContactName     string `gorm:"type:varchar(255);not null;default:''"`
	ContactPhone    string `gorm:"type:varchar(50);not null;default:''"`
}

// TrackingEventDTO is one row of tracking_events. Rows are inserted, never updated.
type TrackingEventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	LogisticsID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tracking_events_sequence,priority:1"`
	Sequence    int       `gorm:"type:int;not null;uniqueIndex:idx_tracking_events_sequence,priority:2"`
	OccurredAt  time.Time `gorm:"not null"`
	Label       string    `gorm:"type:varchar(32);not null"`
	Location    string    `gorm:"type:varchar(255);not null;default:''"`
	Description string    `gorm:"type:text;not null;default:''"`
	Lat         *float64
	Lng         *float64
}

func (TrackingEventDTO) TableName() string {
	return "tracking_events"
}

func fromDomain(l *logistics.Logistics) LogisticsDTO {
	s := l.Snapshot()
	return LogisticsDTO{
		ID:             s.ID.Bytes(),
		TransactionID:  s.TransactionID.Bytes(),
		Carrier:        s.Carrier,
		TrackingNumber: s.TrackingNumber,
		Status:         s.Status.String(),
		Details: DetailsDTO{
			PickupAddress:   s.Details.PickupAddress,
			DeliveryAddress: s.Details.DeliveryAddress,
			ContactName:     s.Details.ContactName,
			ContactPhone:    s.Details.ContactPhone,
		},
		Cost:                s.Cost.Decimal(),
		PickupAt:            s.PickupAt,
		EstimatedDeliveryAt: s.EstimatedDeliveryAt,
		ActualDeliveryAt:    s.ActualDeliveryAt,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
		Version:             s.Version,
	}
}

func eventFromDomain(e logistics.TrackingEvent) TrackingEventDTO {
	dto := TrackingEventDTO{
		ID:          e.ID().Bytes(),
		LogisticsID: e.LogisticsID().Bytes(),
		Sequence:    e.Sequence(),
		OccurredAt:  e.OccurredAt(),
		Label:       e.Label(),
		Location:    e.Location(),
		Description: e.Description(),
	}
	if p := e.Point(); p != nil {
		lat, lng := p.Lat(), p.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

func toDomain(dto LogisticsDTO) (*logistics.Logistics, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	transactionID, err := kernel.UUIDFromBytes(dto.TransactionID[:])
	if err != nil {
		return nil, err
	}
	status, err := logistics.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	cost, err := kernel.NewMoney(dto.Cost)
	if err != nil {
		return nil, err
	}

	events := make([]logistics.TrackingEvent, 0, len(dto.Events))
	for _, e := range dto.Events {
		event, eventErr := eventToDomain(e)
		if eventErr != nil {
			return nil, eventErr
		}
		events = append(events, event)
	}

	return logistics.RestoreLogistics(logistics.Snapshot{
		ID:             id,
		TransactionID:  transactionID,
		Carrier:        dto.Carrier,
		TrackingNumber: dto.TrackingNumber,
		Status:         status,
		Details: logistics.Details{
			PickupAddress:   dto.Details.PickupAddress,
			DeliveryAddress: dto.Details.DeliveryAddress,
			ContactName:     dto.Details.ContactName,
			ContactPhone:    dto.Details.ContactPhone,
		},
		Cost:                cost,
		PickupAt:            utc(dto.PickupAt),
		EstimatedDeliveryAt: utc(dto.EstimatedDeliveryAt),
		ActualDeliveryAt:    utc(dto.ActualDeliveryAt),
		CreatedAt:           dto.CreatedAt.UTC(),
		UpdatedAt:           dto.UpdatedAt.UTC(),
		Version:             dto.Version,
	}, events)
}

func eventToDomain(dto TrackingEventDTO) (logistics.TrackingEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return logistics.TrackingEvent{}, err
	}
	logisticsID, err := kernel.UUIDFromBytes(dto.LogisticsID[:])
	if err != nil {
		return logistics.TrackingEvent{}, err
	}

	var point *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		p, pointErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if pointErr != nil {
			return logistics.TrackingEvent{}, pointErr
		}
		point = &p
	}

	return logistics.RestoreTrackingEvent(
		id,
		logisticsID,
		dto.Sequence,
		dto.OccurredAt,
		dto.Label,
		dto.Location,
		dto.Description,
		point,
	)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
