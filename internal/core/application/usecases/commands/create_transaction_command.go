package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCreateTransactionCommandIsNotConstructed = errors.New(
	"CreateTransactionCommand must be created via NewCreateTransactionCommand constructor",
)

// CreateTransactionCommand asks to buy, or receive as a donation, a quantity of a listed product.
//
// Example:
//
//	cmd, err := NewCreateTransactionCommand(principal, kernel.NewUUID(), productID, 3, transaction.Sale)
//	if err != nil {
//	    return err
//	}
//	tx, err := handler.Handle(ctx, cmd)
type CreateTransactionCommand struct { //nolint:recvcheck //using for validation
	principal     identity.Principal
	transactionID kernel.UUID
	productID     kernel.UUID
	quantity      int
	kind          transaction.Kind

	guard guard.ConstructorGuard
}

func NewCreateTransactionCommand(
	principal identity.Principal,
	transactionID kernel.UUID,
	productID kernel.UUID,
	quantity int,
	kind transaction.Kind,
) (CreateTransactionCommand, error) {
	cmd := CreateTransactionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setTransactionID(transactionID),
		cmd.setProductID(productID),
		cmd.setQuantity(quantity),
		cmd.setKind(kind),
	); err != nil {
		return CreateTransactionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateTransactionCommand) Validate() error {
	return c.guard.Validate(ErrCreateTransactionCommandIsNotConstructed)
}

func (c CreateTransactionCommand) Principal() identity.Principal {
	return c.principal
}

func (c CreateTransactionCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

func (c CreateTransactionCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c CreateTransactionCommand) Quantity() int {
	return c.quantity
}

func (c CreateTransactionCommand) Kind() transaction.Kind {
	return c.kind
}

func (c *CreateTransactionCommand) setPrincipal(p identity.Principal) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.principal = p
	return nil
}

func (c *CreateTransactionCommand) setTransactionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.transactionID = id
	return nil
}

func (c *CreateTransactionCommand) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.productID = id
	return nil
}

func (c *CreateTransactionCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "available quantity")
	}
	c.quantity = quantity
	return nil
}

func (c *CreateTransactionCommand) setKind(kind transaction.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	c.kind = kind
	return nil
}
