package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrChangeTransactionTermsCommandIsNotConstructed = errors.New(
	"ChangeTransactionTermsCommand must be created via NewChangeTransactionTermsCommand constructor",
)

// ChangeTransactionTermsCommand renegotiates the unit price and/or quantity of a
// Pending transaction. At least one of them must be set.
type ChangeTransactionTermsCommand struct { //nolint:recvcheck //using for validation
	principal       identity.Principal
	transactionID   kernel.UUID
	price           *kernel.Money
	quantity        *int
	expectedVersion *int

	guard guard.ConstructorGuard
}

func NewChangeTransactionTermsCommand(
	principal identity.Principal,
	transactionID kernel.UUID,
	price *kernel.Money,
	quantity *int,
) (ChangeTransactionTermsCommand, error) {
	var termsErr error
	if price == nil && quantity == nil {
		termsErr = errs.NewValueIsRequiredError("price or quantity")
	}
	var quantityErr error
	if quantity != nil && *quantity <= 0 {
		quantityErr = errs.NewValueIsOutOfRangeError("quantity", *quantity, 1, "available quantity")
	}

	if err := errors.Join(
		principal.Validate(),
		transactionID.Validate(),
		termsErr,
		quantityErr,
	); err != nil {
		return ChangeTransactionTermsCommand{}, err
	}

	return ChangeTransactionTermsCommand{
		principal:     principal,
		transactionID: transactionID,
		price:         price,
		quantity:      quantity,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeTransactionTermsCommand) WithExpectedVersion(v int) ChangeTransactionTermsCommand {
	c.expectedVersion = &v
	return c
}

func (c ChangeTransactionTermsCommand) Validate() error {
	return c.guard.Validate(ErrChangeTransactionTermsCommandIsNotConstructed)
}

func (c ChangeTransactionTermsCommand) Principal() identity.Principal {
	return c.principal
}

func (c ChangeTransactionTermsCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

func (c ChangeTransactionTermsCommand) Price() *kernel.Money {
	return c.price
}

func (c ChangeTransactionTermsCommand) Quantity() *int {
	return c.quantity
}

func (c ChangeTransactionTermsCommand) ExpectedVersion() (int, bool) {
	if c.expectedVersion == nil {
		return 0, false
	}
	return *c.expectedVersion, true
}
