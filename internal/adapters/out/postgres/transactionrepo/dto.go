// Package transactionrepo persists the transaction ledger with GORM.
package transactionrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/transaction"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionDTO is the row of the transactions table. Version is the optimistic
// lock: every committed transition increments it by one.
type TransactionDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Kind            string          `gorm:"type:varchar(16);not null"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	Price           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Quantity        int             `gorm:"type:int;not null"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	BuyerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerCompanyID *uuid.UUID      `gorm:"type:uuid"`
	Category        string          `gorm:"type:varchar(100);not null"`
	Version         int             `gorm:"type:int;not null"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime:false"`
	AcceptedAt      *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:text;not null;default:''"`
}

func (TransactionDTO) TableName() string {
	return "transactions"
}

func fromDomain(t *transaction.Transaction) TransactionDTO {
	s := t.Snapshot()

	var companyID *uuid.UUID
	if s.SellerCompanyID != nil {
		raw := s.SellerCompanyID.Bytes()
		companyID = &raw
	}

	return TransactionDTO{
		ID:              s.ID.Bytes(),
		Kind:            s.Kind.String(),
		Status:          s.Status.String(),
		Price:           s.Price.Decimal(),
		Quantity:        s.Quantity,
		ProductID:       s.ProductID.Bytes(),
		BuyerID:         s.BuyerID.Bytes(),
		SellerID:        s.SellerID.Bytes(),
		SellerCompanyID: companyID,
		Category:        s.Category,
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		AcceptedAt:      s.AcceptedAt,
		CompletedAt:     s.CompletedAt,
		CancelledAt:     s.CancelledAt,
		CancelReason:    s.CancelReason,
	}
}

func toDomain(dto TransactionDTO) (*transaction.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	var companyID *kernel.UUID
	if dto.SellerCompanyID != nil {
		cID, idErr := kernel.UUIDFromBytes((*dto.SellerCompanyID)[:])
		if idErr != nil {
			return nil, idErr
		}
		companyID = &cID
	}

	kind, err := transaction.ParseKind(dto.Kind)
	if err != nil {
		return nil, err
	}
	status, err := transaction.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}

	return transaction.RestoreTransaction(transaction.Snapshot{
		ID:              id,
		Kind:            kind,
		Status:          status,
		Price:           price,
		Quantity:        dto.Quantity,
		ProductID:       productID,
		BuyerID:         buyerID,
		SellerID:        sellerID,
		SellerCompanyID: companyID,
		Category:        dto.Category,
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt.UTC(),
		UpdatedAt:       dto.UpdatedAt.UTC(),
		AcceptedAt:      utc(dto.AcceptedAt),
		CompletedAt:     utc(dto.CompletedAt),
		CancelledAt:     utc(dto.CancelledAt),
		CancelReason:    dto.CancelReason,
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
