package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListOverdueDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewListOverdueDeliveriesQueryHandler(db *gorm.DB) ListOverdueDeliveriesQueryHandler {
	return ListOverdueDeliveriesQueryHandler{db: db}
}

func (h ListOverdueDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query ListOverdueDeliveriesQuery,
) (OverdueDeliveries, error) {
	if err := query.Validate(); err != nil {
		return OverdueDeliveries{}, err
	}

	const overdue = `
		FROM logistics
		WHERE estimated_delivery_at < ?
		  AND actual_delivery_at IS NULL`

	result := OverdueDeliveries{Items: make([]OverdueDelivery, 0)}
	if err := h.db.WithContext(ctx).Raw(`SELECT COUNT(*)`+overdue, query.Now()).Scan(&result.Total).Error; err != nil {
		return OverdueDeliveries{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			transaction_id,
			carrier,
			tracking_number,
			status,
			estimated_delivery_at`+overdue+`
		ORDER BY estimated_delivery_at, id
		LIMIT ?
	`, query.Now(), query.Limit()).Rows()
	if err != nil {
		return OverdueDeliveries{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item      OverdueDelivery
			id, txID  uuid.UUID
			estimated time.Time
		)
		if err = rows.Scan(&id, &txID, &item.Carrier, &item.TrackingNumber, &item.Status, &estimated); err != nil {
			return OverdueDeliveries{}, err
		}

		if item.LogisticsID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return OverdueDeliveries{}, err
		}
		if item.TransactionID, err = kernel.UUIDFromBytes(txID[:]); err != nil {
			return OverdueDeliveries{}, err
		}
		item.EstimatedDeliveryAt = estimated.UTC()
		result.Items = append(result.Items, item)
	}

	if err = rows.Err(); err != nil {
		return OverdueDeliveries{}, err
	}
	return result, nil
}
