// Package integration binds committed ledger and delivery changes to the
// notification dispatcher and the domain event stream.
package integration

import (
	"context"
	"fmt"
	"log/slog"

	"marketplace/internal/core/application/dispatcher"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"
)

// Notifier is the part of the dispatcher the hooks use.
type Notifier interface {
	Dispatch(ctx context.Context, msg dispatcher.Message) (*notification.Notification, error)
}

// Hooks implements commands.TransactionHooks and commands.LogisticsHooks.
// Nothing here can fail the caller: the change is already committed.
type Hooks struct {
	notifier Notifier
	events   ports.TransactionEventPublisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New builds the hooks. events may be nil when no event stream is configured.
func New(notifier Notifier, events ports.TransactionEventPublisher, m *metrics.Metrics, logger *slog.Logger) *Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Hooks{
		notifier: notifier,
		events:   events,
		metrics:  m,
		logger:   logger.With("component", "integration_hooks"),
	}
}

// TransactionRequested tells the seller about a new request.
func (h *Hooks) TransactionRequested(ctx context.Context, tx *transaction.Transaction, actor identity.Principal) {
	h.notify(ctx, dispatcher.Message{
		UserID:   tx.SellerID(),
		Type:     notification.TypeTransactionRequested,
		Title:    requestTitle(tx.Kind()),
		Message:  fmt.Sprintf("A buyer asked for %d unit(s) of your listing.", tx.Quantity()),
		Data:     transactionData(tx, nil),
		Priority: notification.Medium,
	})
	h.publish(ctx, tx, transaction.Unknown, actor.UserID())
}

// TransactionTransitioned notifies buyer and seller about the new status.
func (h *Hooks) TransactionTransitioned(
	ctx context.Context,
	tx *transaction.Transaction,
	from transaction.Status,
	actor identity.Principal,
	spawned *logistics.Logistics,
) {
	h.metrics.TransitionsTotal.WithLabelValues(from.String(), tx.Status().String()).Inc()

	typ, priority := transitionNotice(tx.Status())
	var logisticsID *kernel.UUID
	if spawned != nil {
		id := spawned.ID()
		logisticsID = &id
	}

	message := fmt.Sprintf("Transaction %s is now %s.", tx.ID(), tx.Status())
	if tx.Status() == transaction.Cancelled {
		message = fmt.Sprintf("Transaction %s was cancelled: %s", tx.ID(), tx.CancelReason())
	}

	for _, userID := range tx.Participants() {
		h.notify(ctx, dispatcher.Message{
			UserID:   userID,
			Type:     typ,
			Title:    "Transaction " + statusWord(tx.Status()),
			Message:  message,
			Data:     transactionData(tx, logisticsID),
			Priority: priority,
		})
	}
	h.publish(ctx, tx, from, actor.UserID())
}

// TermsChanged tells both parties about the new price and quantity.
func (h *Hooks) TermsChanged(ctx context.Context, tx *transaction.Transaction, _ identity.Principal) {
	for _, userID := range tx.Participants() {
		h.notify(ctx, dispatcher.Message{
			UserID: userID,
			Type:   notification.TypeTransactionTermsChanged,
			Title:  "Transaction terms changed",
			Message: fmt.Sprintf("New terms: %d unit(s) at %s each, %s in total.",
				tx.Quantity(), tx.Price(), tx.Total()),
			Data:     transactionData(tx, nil),
			Priority: notification.Medium,
		})
	}
}

// LogisticsUpdated relays a carrier update. Exceptions are HIGH so that they are emailed.
func (h *Hooks) LogisticsUpdated(
	ctx context.Context,
	tx *transaction.Transaction,
	record *logistics.Logistics,
	event logistics.TrackingEvent,
) {
	typ, priority := notification.TypeLogisticsUpdated, notification.Medium
	title := "Delivery update: " + record.Status().String()
	if record.Status() == logistics.Exception {
		typ, priority = notification.TypeDeliveryException, notification.High
		title = "Delivery problem"
	}

	message := fmt.Sprintf("Delivery for transaction %s is %s.", tx.ID(), record.Status())
	if event.Location() != "" {
		message = fmt.Sprintf("Delivery for transaction %s is %s at %s.", tx.ID(), record.Status(), event.Location())
	}
	if event.Description() != "" {
		message += " " + event.Description()
	}

	id := record.ID()
	data := transactionData(tx, &id)
	data["logisticsStatus"] = record.Status().String()
	data["trackingEventId"] = event.ID().String()

	for _, userID := range tx.Participants() {
		h.notify(ctx, dispatcher.Message{
			UserID:   userID,
			Type:     typ,
			Title:    title,
			Message:  message,
			Data:     data,
			Priority: priority,
		})
	}
}

func (h *Hooks) notify(ctx context.Context, msg dispatcher.Message) {
	if _, err := h.notifier.Dispatch(ctx, msg); err != nil {
		h.logger.ErrorContext(ctx, "Notification not stored",
			"user_id", msg.UserID.String(), "type", string(msg.Type), "error", err)
	}
}

func (h *Hooks) publish(ctx context.Context, tx *transaction.Transaction, from transaction.Status, actorID kernel.UUID) {
	if h.events == nil {
		return
	}
	event := transaction.NewStatusChanged(tx, from, actorID, tx.UpdatedAt())
	if err := h.events.PublishStatusChanged(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "Status change event not published",
			"transaction_id", tx.ID().String(), "to", tx.Status().String(), "error", err)
	}
}

func transitionNotice(status transaction.Status) (notification.Type, notification.Priority) {
	switch status {
	case transaction.Accepted:
		return notification.TypeTransactionAccepted, notification.Medium
	case transaction.Completed:
		return notification.TypeTransactionCompleted, notification.High
	default:
		return notification.TypeTransactionCancelled, notification.High
	}
}

func statusWord(status transaction.Status) string {
	switch status {
	case transaction.Accepted:
		return "accepted"
	case transaction.Completed:
		return "completed"
	case transaction.Cancelled:
		return "cancelled"
	default:
		return "updated"
	}
}

func requestTitle(kind transaction.Kind) string {
	if kind == transaction.Donation {
		return "New donation request"
	}
	return "New purchase request"
}

func transactionData(tx *transaction.Transaction, logisticsID *kernel.UUID) map[string]any {
	data := map[string]any{
		"transactionId": tx.ID().String(),
		"status":        tx.Status().String(),
		"kind":          tx.Kind().String(),
		"version":       tx.Version(),
	}
	if logisticsID != nil {
		data["logisticsId"] = logisticsID.String()
	}
	return data
}
