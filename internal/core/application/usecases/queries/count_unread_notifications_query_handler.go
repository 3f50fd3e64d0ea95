package queries

import (
	"context"

	"gorm.io/gorm"
)

type CountUnreadNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewCountUnreadNotificationsQueryHandler(db *gorm.DB) CountUnreadNotificationsQueryHandler {
	return CountUnreadNotificationsQueryHandler{db: db}
}

func (h CountUnreadNotificationsQueryHandler) Handle(
	ctx context.Context,
	query CountUnreadNotificationsQuery,
) (int64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM notifications
		WHERE user_id = ? AND read_at IS NULL
	`, query.UserID().Bytes()).Scan(&count).Error
	return count, err
}
