package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
)

// NotificationRepository stores inbox entries. It is used outside of the unit of work:
// notifications are written after the ledger commit they describe.
type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// MarkRead sets read_at to at unless it is already set. Safe to call concurrently.
	MarkRead(ctx context.Context, id kernel.UUID, at time.Time) error

	// MarkAllRead marks every unread notification of userID and returns how many changed.
	MarkAllRead(ctx context.Context, userID kernel.UUID, at time.Time) (int64, error)

	// Delete removes one notification.
	Delete(ctx context.Context, id kernel.UUID) error

	// Purge deletes notifications created before cutoff, optionally only read ones.
	Purge(ctx context.Context, cutoff time.Time, onlyRead bool) (int64, error)
}
