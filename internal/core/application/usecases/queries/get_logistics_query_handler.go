package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetLogisticsQueryHandler struct {
	db *gorm.DB
}

func NewGetLogisticsQueryHandler(db *gorm.DB) GetLogisticsQueryHandler {
	return GetLogisticsQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when the transaction has no delivery yet.
// Events are ordered by timestamp, ties broken by insertion sequence.
func (h GetLogisticsQueryHandler) Handle(ctx context.Context, query GetLogisticsQuery) (LogisticsView, error) {
	if err := query.Validate(); err != nil {
		return LogisticsView{}, err
	}

	view, buyerID, sellerID, err := h.record(ctx, query.TransactionID())
	if err != nil {
		return LogisticsView{}, err
	}

	p := query.Principal()
	if !p.IsAdmin() && !p.IsCarrier() && !p.Is(buyerID) && !p.Is(sellerID) {
		return LogisticsView{}, errs.NewForbiddenError("read logistics", "caller is not a participant, a carrier or an admin")
	}

	if view.Events, err = h.events(ctx, view.ID); err != nil {
		return LogisticsView{}, err
	}
	view.Overdue = logistics.IsOverdue(view.EstimatedDeliveryAt, view.ActualDeliveryAt, query.Now())
	return view, nil
}

func (h GetLogisticsQueryHandler) record(
	ctx context.Context,
	transactionID kernel.UUID,
) (LogisticsView, kernel.UUID, kernel.UUID, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			l.id,
			l.transaction_id,
			l.carrier,
			l.tracking_number,
			l.status,
			l.pickup_address,
			l.delivery_address,
			l.contact_name,
			l.contact_phone,
			l.cost,
			l.pickup_at,
			l.estimated_delivery_at,
			l.actual_delivery_at,
			l.created_at,
			l.updated_at,
			t.buyer_id,
			t.seller_id
		FROM logistics l
		JOIN transactions t ON t.id = l.transaction_id
		WHERE l.transaction_id = ?
	`, transactionID.Bytes()).Rows()
	if err != nil {
		return LogisticsView{}, kernel.UUID{}, kernel.UUID{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return LogisticsView{}, kernel.UUID{}, kernel.UUID{}, err
		}
		return LogisticsView{}, kernel.UUID{}, kernel.UUID{},
			errs.NewObjectNotFoundError("logistics for transaction", transactionID.String())
	}

	var (
		view                 LogisticsView
		id, txID             uuid.UUID
		buyer, seller        uuid.UUID
		pickupAt, estimated  *time.Time
		actual               *time.Time
		createdAt, updatedAt time.Time
	)
	err = rows.Scan(
		&id,
		&txID,
		&view.Carrier,
		&view.TrackingNumber,
		&view.Status,
		&view.PickupAddress,
		&view.DeliveryAddress,
		&view.ContactName,
		&view.ContactPhone,
		&view.Cost,
		&pickupAt,
		&estimated,
		&actual,
		&createdAt,
		&updatedAt,
		&buyer,
		&seller,
	)
	if err != nil {
		return LogisticsView{}, kernel.UUID{}, kernel.UUID{}, err
	}

	if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return LogisticsView{}, kernel.UUID{}, kernel.UUID{}, err
	}
	if view.TransactionID, err = kernel.UUIDFromBytes(txID[:]); err != nil {
		return LogisticsView{}, kernel.UUID{}, kernel.UUID{}, err
	}
	buyerID, err := kernel.UUIDFromBytes(buyer[:])
	if err != nil {
		return LogisticsView{}, kernel.UUID{}, kernel.UUID{}, err
	}
	sellerID, err := kernel.UUIDFromBytes(seller[:])
	if err != nil {
		return LogisticsView{}, kernel.UUID{}, kernel.UUID{}, err
	}

	view.PickupAt = utc(pickupAt)
	view.EstimatedDeliveryAt = utc(estimated)
	view.ActualDeliveryAt = utc(actual)
	view.CreatedAt = createdAt.UTC()
	view.UpdatedAt = updatedAt.UTC()
	return view, buyerID, sellerID, rows.Err()
}

func (h GetLogisticsQueryHandler) events(ctx context.Context, logisticsID kernel.UUID) ([]TrackingEventView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			sequence,
			occurred_at,
			label,
			location,
			description,
			lat,
			lng
		FROM tracking_events
		WHERE logistics_id = ?
		ORDER BY occurred_at, sequence
	`, logisticsID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]TrackingEventView, 0)
	for rows.Next() {
		var (
			e          TrackingEventView
			id         uuid.UUID
			occurredAt time.Time
		)
		if err = rows.Scan(
			&id,
			&e.Sequence,
			&occurredAt,
			&e.Status,
			&e.Location,
			&e.Description,
			&e.Lat,
			&e.Lng,
		); err != nil {
			return nil, err
		}

		eventID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		e.ID = eventID
		e.OccurredAt = occurredAt.UTC()
		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
