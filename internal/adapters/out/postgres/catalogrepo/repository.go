// Package catalogrepo reads product listings owned by the catalog. The ledger never
// writes to the products table.
package catalogrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductDTO is the subset of the products table the ledger reads.
type ProductDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SellerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	CompanyID         *uuid.UUID      `gorm:"type:uuid"`
	Title             string          `gorm:"type:varchar(255);not null;default:''"`
	Category          string          `gorm:"type:varchar(100);not null"`
	Price             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	QuantityAvailable int             `gorm:"type:int;not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

// GormCatalog implements ports.ProductCatalog over the products table.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) GetListing(ctx context.Context, productID kernel.UUID) (transaction.Listing, error) {
	if err := productID.Validate(); err != nil {
		return transaction.Listing{}, err
	}

	var dto ProductDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", productID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transaction.Listing{}, errs.NewObjectNotFoundError("product", productID.String())
		}
		return transaction.Listing{}, err
	}

	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return transaction.Listing{}, err
	}
	var companyID *kernel.UUID
	if dto.CompanyID != nil {
		id, idErr := kernel.UUIDFromBytes((*dto.CompanyID)[:])
		if idErr != nil {
			return transaction.Listing{}, idErr
		}
		companyID = &id
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return transaction.Listing{}, err
	}

	return transaction.Listing{
		ProductID:       productID,
		SellerID:        sellerID,
		SellerCompanyID: companyID,
		Category:        dto.Category,
		UnitPrice:       price,
		Available:       dto.QuantityAvailable,
	}, nil
}
