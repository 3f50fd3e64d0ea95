package memory

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/errs"
)

// NotificationRepository stores notifications in the Store.
type NotificationRepository struct {
	store *Store
}

func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) Add(_ context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications[n.ID()] = clone(n)
	return nil
}

func (r *NotificationRepository) Get(_ context.Context, id kernel.UUID) (*notification.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n, ok := r.store.notifications[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("notification", id.String())
	}
	return clone(n), nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id kernel.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n, ok := r.store.notifications[id]
	if !ok {
		return errs.NewObjectNotFoundError("notification", id.String())
	}
	n.MarkRead(at)
	return nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID kernel.UUID, at time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var changed int64
	for _, n := range r.store.notifications {
		if n.BelongsTo(userID) && n.MarkRead(at) {
			changed++
		}
	}
	return changed, nil
}

func (r *NotificationRepository) Delete(_ context.Context, id kernel.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.notifications[id]; !ok {
		return errs.NewObjectNotFoundError("notification", id.String())
	}
	delete(r.store.notifications, id)
	return nil
}

func (r *NotificationRepository) Purge(_ context.Context, cutoff time.Time, onlyRead bool) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var purged int64
	for id, n := range r.store.notifications {
		if !n.CreatedAt().Before(cutoff) || (onlyRead && !n.IsRead()) {
			continue
		}
		delete(r.store.notifications, id)
		purged++
	}
	return purged, nil
}
