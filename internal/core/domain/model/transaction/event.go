package transaction

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// StatusChanged is emitted after a transition commits. From is Unknown for a newly
// requested transaction.
type StatusChanged struct {
	EventID       kernel.UUID
	TransactionID kernel.UUID
	Kind          Kind
	From          Status
	To            Status
	Version       int
	BuyerID       kernel.UUID
	SellerID      kernel.UUID
	ActorID       kernel.UUID
	OccurredAt    time.Time
}

// NewStatusChanged describes the current state of t as the result of a move from from.
func NewStatusChanged(t *Transaction, from Status, actorID kernel.UUID, occurredAt time.Time) StatusChanged {
	return StatusChanged{
		EventID:       kernel.NewUUID(),
		TransactionID: t.ID(),
		Kind:          t.Kind(),
		From:          from,
		To:            t.Status(),
		Version:       t.Version(),
		BuyerID:       t.BuyerID(),
		SellerID:      t.SellerID(),
		ActorID:       actorID,
		OccurredAt:    occurredAt,
	}
}
