package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ListNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewListNotificationsQueryHandler(db *gorm.DB) ListNotificationsQueryHandler {
	return ListNotificationsQueryHandler{db: db}
}

func (h ListNotificationsQueryHandler) Handle(ctx context.Context, query ListNotificationsQuery) (NotificationPage, error) {
	if err := query.Validate(); err != nil {
		return NotificationPage{}, err
	}

	where := ` FROM notifications WHERE user_id = ?`
	if query.UnreadOnly() {
		where += ` AND read_at IS NULL`
	}
	userID := query.UserID().Bytes()

	p := query.Pagination()
	page := NotificationPage{
		Items:    make([]*notification.Notification, 0),
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	if err := h.db.WithContext(ctx).Raw(`SELECT COUNT(*)`+where, userID).Scan(&page.Total).Error; err != nil {
		return NotificationPage{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			type,
			title,
			message,
			data,
			priority,
			created_at,
			read_at`+where+`
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, userID, p.PageSize, p.Offset()).Rows()
	if err != nil {
		return NotificationPage{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        uuid.UUID
			typ       string
			title     string
			message   string
			data      datatypes.JSONMap
			priority  string
			createdAt time.Time
			readAt    *time.Time
		)
		if err = rows.Scan(&id, &typ, &title, &message, &data, &priority, &createdAt, &readAt); err != nil {
			return NotificationPage{}, err
		}

		notificationID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return NotificationPage{}, idErr
		}
		prio, prioErr := notification.ParsePriority(priority)
		if prioErr != nil {
			return NotificationPage{}, prioErr
		}

		n, restoreErr := notification.RestoreNotification(
			notificationID,
			query.UserID(),
			notification.Type(typ),
			title,
			message,
			map[string]any(data),
			prio,
			createdAt.UTC(),
			utc(readAt),
		)
		if restoreErr != nil {
			return NotificationPage{}, restoreErr
		}
		page.Items = append(page.Items, n)
	}

	if err = rows.Err(); err != nil {
		return NotificationPage{}, err
	}
	return page, nil
}
