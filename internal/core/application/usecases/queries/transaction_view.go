package queries

import (
	"database/sql"
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionView is the read model of a ledger entry.
type TransactionView struct {
	ID              kernel.UUID
	Kind            string
	Status          string
	Price           decimal.Decimal
	Quantity        int
	Total           decimal.Decimal
	ProductID       kernel.UUID
	BuyerID         kernel.UUID
	SellerID        kernel.UUID
	SellerCompanyID *kernel.UUID
	Category        string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AcceptedAt      *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
	LogisticsID     *kernel.UUID
}

// IsParticipant reports whether userID is the buyer or the seller.
func (v TransactionView) IsParticipant(userID kernel.UUID) bool {
	return v.BuyerID.IsEqual(userID) || v.SellerID.IsEqual(userID)
}

const transactionColumns = `
	t.id,
	t.kind,
	t.status,
	t.price,
	t.quantity,
	t.product_id,
	t.buyer_id,
	t.seller_id,
	t.seller_company_id,
	t.category,
	t.version,
	t.created_at,
	t.updated_at,
	t.accepted_at,
	t.completed_at,
	t.cancelled_at,
	t.cancel_reason,
	l.id`

const transactionFrom = `
	FROM transactions t
	LEFT JOIN logistics l ON l.transaction_id = t.id`

func scanTransaction(rows *sql.Rows) (TransactionView, error) {
	var (
		view                    TransactionView
		id, productID           uuid.UUID
		buyerID, sellerID       uuid.UUID
		companyID, logisticsID  uuid.NullUUID
		acceptedAt, completedAt *time.Time
		cancelledAt             *time.Time
		createdAt, updatedAt    time.Time
	)

	err := rows.Scan(
		&id,
		&view.Kind,
		&view.Status,
		&view.Price,
		&view.Quantity,
		&productID,
		&buyerID,
		&sellerID,
		&companyID,
		&view.Category,
		&view.Version,
		&createdAt,
		&updatedAt,
		&acceptedAt,
		&completedAt,
		&cancelledAt,
		&view.CancelReason,
		&logisticsID,
	)
	if err != nil {
		return TransactionView{}, err
	}

	if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return TransactionView{}, err
	}
	if view.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
		return TransactionView{}, err
	}
	if view.BuyerID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
		return TransactionView{}, err
	}
	if view.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
		return TransactionView{}, err
	}
	if view.SellerCompanyID, err = nullableUUID(companyID); err != nil {
		return TransactionView{}, err
	}
	if view.LogisticsID, err = nullableUUID(logisticsID); err != nil {
		return TransactionView{}, err
	}

	view.Total = view.Price.Mul(decimal.NewFromInt(int64(view.Quantity)))
	view.CreatedAt = createdAt.UTC()
	view.UpdatedAt = updatedAt.UTC()
	view.AcceptedAt = utc(acceptedAt)
	view.CompletedAt = utc(completedAt)
	view.CancelledAt = utc(cancelledAt)
	return view, nil
}

func nullableUUID(v uuid.NullUUID) (*kernel.UUID, error) {
	if !v.Valid {
		return nil, nil //nolint:nilnil // absent is not an error
	}
	id, err := kernel.UUIDFromBytes(v.UUID[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
