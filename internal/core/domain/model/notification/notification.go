// Package notification models the per-user inbox entries produced by the dispatcher.
package notification

import (
	"errors"
	"maps"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

// Notification is an inbox entry for one user. Apart from the read transition it is
// immutable; the read flag only ever goes from false to true.
type Notification struct {
	id        kernel.UUID
	userID    kernel.UUID
	typ       Type
	title     string
	message   string
	data      map[string]any
	priority  Priority
	createdAt time.Time
	readAt    *time.Time

	isConstructed bool
}

func NewNotification(
	id kernel.UUID,
	userID kernel.UUID,
	typ Type,
	title string,
	message string,
	data map[string]any,
	priority Priority,
	now time.Time,
) (*Notification, error) {
	var titleErr, messageErr error
	if strings.TrimSpace(title) == "" {
		titleErr = errs.NewValueIsRequiredError("title")
	}
	if strings.TrimSpace(message) == "" {
		messageErr = errs.NewValueIsRequiredError("message")
	}
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		typ.Validate(),
		priority.Validate(),
		titleErr,
		messageErr,
	); err != nil {
		return nil, err
	}

	return &Notification{
		id:            id,
		userID:        userID,
		typ:           typ,
		title:         strings.TrimSpace(title),
		message:       strings.TrimSpace(message),
		data:          maps.Clone(data),
		priority:      priority,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreNotification rebuilds a stored notification.
func RestoreNotification(
	id kernel.UUID,
	userID kernel.UUID,
	typ Type,
	title string,
	message string,
	data map[string]any,
	priority Priority,
	createdAt time.Time,
	readAt *time.Time,
) (*Notification, error) {
	n, err := NewNotification(id, userID, typ, title, message, data, priority, createdAt)
	if err != nil {
		return nil, err
	}
	n.readAt = readAt
	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID {
	return n.id
}

func (n *Notification) UserID() kernel.UUID {
	return n.userID
}

func (n *Notification) Type() Type {
	return n.typ
}

func (n *Notification) Title() string {
	return n.title
}

func (n *Notification) Message() string {
	return n.message
}

// Data returns a copy of the opaque payload.
func (n *Notification) Data() map[string]any {
	return maps.Clone(n.data)
}

func (n *Notification) Priority() Priority {
	return n.priority
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) ReadAt() *time.Time {
	return n.readAt
}

func (n *Notification) IsRead() bool {
	return n.readAt != nil
}

// BelongsTo reports whether userID owns the notification.
func (n *Notification) BelongsTo(userID kernel.UUID) bool {
	return n.userID.IsEqual(userID)
}

// MarkRead stamps readAt the first time it is called and reports whether anything changed.
func (n *Notification) MarkRead(now time.Time) bool {
	if n.readAt != nil {
		return false
	}
	n.readAt = &now
	return true
}
