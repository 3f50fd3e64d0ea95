package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/core/ports"
)

// CreateTransactionCommandHandler opens a Pending transaction against the current
// catalog listing and tells the seller about the request.
type CreateTransactionCommandHandler struct {
	uowFactory TransactionUoWFactory
	catalog    ports.ProductCatalog
	hooks      TransactionHooks
}

func NewCreateTransactionCommandHandler(
	uowFactory TransactionUoWFactory,
	catalog ports.ProductCatalog,
	hooks TransactionHooks,
) CreateTransactionCommandHandler {
	return CreateTransactionCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		hooks:      hooks,
	}
}

// Handle reads the listing, checks the requested quantity against what is available
// and stores the new transaction with version 1.
func (h CreateTransactionCommandHandler) Handle(
	ctx context.Context,
	cmd CreateTransactionCommand,
) (*transaction.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	listing, err := h.catalog.GetListing(ctx, cmd.ProductID())
	if err != nil {
		return nil, err
	}

	tx, err := transaction.NewTransaction(
		cmd.TransactionID(),
		cmd.Kind(),
		cmd.Principal().UserID(),
		listing,
		cmd.Quantity(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.TransactionRepository().Add(ctx, tx); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.hooks.TransactionRequested(context.WithoutCancel(ctx), tx, cmd.Principal())
	return tx, nil
}
