package transactionrepo

import (
	"context"
	"errors"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTransactionRepository implements ports.TransactionRepository using GORM.
type GormTransactionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormTransactionRepository(db *gorm.DB, tracker aggregateTracker) *GormTransactionRepository {
	return &GormTransactionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new transaction.
func (r *GormTransactionRepository) Add(ctx context.Context, aggregate *transaction.Transaction) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, "") {
			return errs.NewValueIsInvalidErrorWithCause("transaction", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update is a compare-and-set on the version column. Zero affected rows means the
// row is gone or another writer committed first; a follow-up count tells which.
func (r *GormTransactionRepository) Update(
	ctx context.Context,
	aggregate *transaction.Transaction,
	expectedVersion int,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&TransactionDTO{}).
		Where("id = ? AND version = ?", dto.ID, expectedVersion).
		Updates(map[string]any{
			"status":        dto.Status,
			"price":         dto.Price,
			"quantity":      dto.Quantity,
			"version":       dto.Version,
			"updated_at":    dto.UpdatedAt,
			"accepted_at":   dto.AcceptedAt,
			"completed_at":  dto.CompletedAt,
			"cancelled_at":  dto.CancelledAt,
			"cancel_reason": dto.CancelReason,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&TransactionDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("transaction", aggregate.ID().String())
		}
		return errs.NewConcurrencyConflictError("transaction", aggregate.ID().String(), expectedVersion)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a transaction by ID.
func (r *GormTransactionRepository) Get(ctx context.Context, id kernel.UUID) (*transaction.Transaction, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transaction", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
