package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/guard"
)

var ErrListNotificationsQueryIsNotConstructed = errors.New(
	"ListNotificationsQuery must be created via NewListNotificationsQuery constructor",
)

// ListNotificationsQuery pages through a user's inbox, newest first. The page size is
// clamped to [1, MaxNotificationPageSize] with DefaultNotificationPageSize when unset.
type ListNotificationsQuery struct { //nolint:recvcheck //using for validation
	userID     kernel.UUID
	unreadOnly bool
	pagination Pagination

	guard guard.ConstructorGuard
}

func NewListNotificationsQuery(userID kernel.UUID, unreadOnly bool, page, pageSize int) (ListNotificationsQuery, error) {
	if err := userID.Validate(); err != nil {
		return ListNotificationsQuery{}, err
	}
	return ListNotificationsQuery{
		userID:     userID,
		unreadOnly: unreadOnly,
		pagination: newPagination(page, pageSize, DefaultNotificationPageSize, MaxNotificationPageSize),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListNotificationsQueryIsNotConstructed)
}

func (q ListNotificationsQuery) UserID() kernel.UUID {
	return q.userID
}

func (q ListNotificationsQuery) UnreadOnly() bool {
	return q.unreadOnly
}

func (q ListNotificationsQuery) Pagination() Pagination {
	return q.pagination
}

type NotificationPage struct {
	Items    []*notification.Notification
	Page     int
	PageSize int
	Total    int64
}
