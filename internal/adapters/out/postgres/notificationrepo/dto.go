// Package notificationrepo stores user inbox entries with GORM. The data payload is
// an opaque JSON document; there is no foreign key to the ledger.
package notificationrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDTO is the row of the notifications table.
type NotificationDTO struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1"`
	Type      string            `gorm:"type:varchar(40);not null"`
	Title     string            `gorm:"type:varchar(255);not null"`
	Message   string            `gorm:"type:text;not null"`
	Data      datatypes.JSONMap `gorm:"type:jsonb"`
	Priority  string            `gorm:"type:varchar(8);not null"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime:false;index:idx_notifications_user_created,priority:2"`
	ReadAt    *time.Time        `gorm:"index"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	var data datatypes.JSONMap
	if d := n.Data(); len(d) > 0 {
		data = datatypes.JSONMap(d)
	}
	return NotificationDTO{
		ID:        n.ID().Bytes(),
		UserID:    n.UserID().Bytes(),
		Type:      string(n.Type()),
		Title:     n.Title(),
		Message:   n.Message(),
		Data:      data,
		Priority:  n.Priority().String(),
		CreatedAt: n.CreatedAt(),
		ReadAt:    n.ReadAt(),
	}
}

// ToDomain rebuilds a notification from its row. Query handlers scan rows with the
// same column set and reuse it.
func ToDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	priority, err := notification.ParsePriority(dto.Priority)
	if err != nil {
		return nil, err
	}

	var readAt *time.Time
	if dto.ReadAt != nil {
		at := dto.ReadAt.UTC()
		readAt = &at
	}

	return notification.RestoreNotification(
		id,
		userID,
		notification.Type(dto.Type),
		dto.Title,
		dto.Message,
		map[string]any(dto.Data),
		priority,
		dto.CreatedAt.UTC(),
		readAt,
	)
}
