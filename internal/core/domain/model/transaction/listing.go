package transaction

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Listing is the catalog snapshot a transaction is created from.
// Only the fields the ledger needs are copied; the catalog stays the owner of products.
type Listing struct {
	ProductID       kernel.UUID
	SellerID        kernel.UUID
	SellerCompanyID *kernel.UUID
	Category        string
	UnitPrice       kernel.Money
	Available       int
}

func (l Listing) Validate() error {
	var categoryErr error
	if strings.TrimSpace(l.Category) == "" {
		categoryErr = errs.NewValueIsRequiredError("category")
	}
	var availableErr error
	if l.Available < 0 {
		availableErr = errs.NewValueIsOutOfRangeError("available", l.Available, 0, "unbounded")
	}
	return errors.Join(
		l.ProductID.Validate(),
		l.SellerID.Validate(),
		categoryErr,
		availableErr,
	)
}
