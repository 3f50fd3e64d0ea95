package notificationrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationRepository implements ports.NotificationRepository using GORM.
// Every call runs in its own statement; notifications never join a ledger transaction.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	dto := fromDomain(n)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", id.String())
		}
		return nil, err
	}
	return ToDomain(dto)
}

// MarkRead only touches rows whose read_at is still null, so the first reader wins
// and later calls keep the original timestamp.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, id kernel.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ? AND read_at IS NULL", id.Bytes()).
		Update("read_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&NotificationDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("notification", id.String())
	}
	return nil
}

func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID kernel.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("user_id = ? AND read_at IS NULL", userID.Bytes()).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&NotificationDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", id.String())
	}
	return nil
}

func (r *GormNotificationRepository) Purge(ctx context.Context, cutoff time.Time, onlyRead bool) (int64, error) {
	query := r.db.WithContext(ctx).Where("created_at < ?", cutoff)
	if onlyRead {
		query = query.Where("read_at IS NOT NULL")
	}
	result := query.Delete(&NotificationDTO{})
	return result.RowsAffected, result.Error
}
