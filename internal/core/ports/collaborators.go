package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/transaction"
)

// ProductCatalog is the read-only view of the external catalog.
type ProductCatalog interface {
	// GetListing returns errs.ObjectNotFoundError when the product does not exist.
	GetListing(ctx context.Context, productID kernel.UUID) (transaction.Listing, error)
}

// UserDirectory resolves contact data for email escalation.
type UserDirectory interface {
	EmailOf(ctx context.Context, userID kernel.UUID) (string, error)
}

// RealtimePublisher pushes a notification to the user's live channel. Best effort:
// there is no acknowledgement and no retry.
type RealtimePublisher interface {
	Publish(ctx context.Context, n *notification.Notification) error
}

// EmailSender hands a message to the mail transport.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TransactionEventPublisher emits committed status changes to downstream consumers.
type TransactionEventPublisher interface {
	PublishStatusChanged(ctx context.Context, event transaction.StatusChanged) error
}
