package logisticsrepo

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormLogisticsRepository implements ports.LogisticsRepository using GORM.
type GormLogisticsRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormLogisticsRepository(db *gorm.DB, tracker aggregateTracker) *GormLogisticsRepository {
	return &GormLogisticsRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the record. Its initial events, if any, are written with AppendEvent.
func (r *GormLogisticsRepository) Add(ctx context.Context, aggregate *logistics.Logistics) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Omit("Events").Create(&dto).Error; err != nil {
		return translate(err, aggregate)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update is a compare-and-set on the version column, the same way transactions are
// written. A carrier write that lost the race cannot roll the status back.
func (r *GormLogisticsRepository) Update(
	ctx context.Context,
	aggregate *logistics.Logistics,
	expectedVersion int,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&LogisticsDTO{}).
		Where("id = ? AND version = ?", dto.ID, expectedVersion).
		Updates(map[string]any{
			"carrier":               dto.Carrier,
			"tracking_number":       dto.TrackingNumber,
			"status":                dto.Status,
			"cost":                  dto.Cost,
			"pickup_at":             dto.PickupAt,
			"estimated_delivery_at": dto.EstimatedDeliveryAt,
			"actual_delivery_at":    dto.ActualDeliveryAt,
			"updated_at":            dto.UpdatedAt,
			"version":               dto.Version,
		})
	if result.Error != nil {
		return translate(result.Error, aggregate)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&LogisticsDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("logistics", aggregate.ID().String())
		}
		return errs.NewConcurrencyConflictError("logistics", aggregate.ID().String(), expectedVersion)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormLogisticsRepository) AppendEvent(ctx context.Context, event logistics.TrackingEvent) error {
	dto := eventFromDomain(event)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, EventSequenceIndex) {
			return errs.NewConcurrencyConflictError("logistics", event.LogisticsID().String(), event.Sequence()-1)
		}
		return err
	}
	return nil
}

func (r *GormLogisticsRepository) Get(ctx context.Context, id kernel.UUID) (*logistics.Logistics, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "id = ?", id.Bytes(), "logistics", id.String())
}

func (r *GormLogisticsRepository) GetByTransaction(
	ctx context.Context,
	transactionID kernel.UUID,
) (*logistics.Logistics, error) {
	if err := transactionID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "transaction_id = ?", transactionID.Bytes(), "logistics for transaction", transactionID.String())
}

func (r *GormLogisticsRepository) first(
	ctx context.Context,
	where string,
	arg any,
	param string,
	id string,
) (*logistics.Logistics, error) {
	var dto LogisticsDTO
	err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at, sequence")
		}).
		First(&dto, where, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func translate(err error, aggregate *logistics.Logistics) error {
	switch {
	case pgerr.IsUniqueViolation(err, TransactionIndex):
		return errs.NewConcurrencyConflictError("logistics", aggregate.TransactionID().String(), 0)
	case pgerr.IsUniqueViolation(err, TrackingNumberIndex):
		return errs.NewValueIsInvalidErrorWithCause(
			"tracking number",
			fmt.Errorf("%s is already in use", *aggregate.TrackingNumber()),
		)
	default:
		return err
	}
}
