package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ChangeTransactionTermsCommandHandler applies a renegotiation with the same version
// compare-and-swap as status transitions. A quantity change is checked against the
// quantity the catalog has available now.
type ChangeTransactionTermsCommandHandler struct {
	uowFactory TransactionUoWFactory
	catalog    ports.ProductCatalog
	hooks      TransactionHooks
}

func NewChangeTransactionTermsCommandHandler(
	uowFactory TransactionUoWFactory,
	catalog ports.ProductCatalog,
	hooks TransactionHooks,
) ChangeTransactionTermsCommandHandler {
	return ChangeTransactionTermsCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		hooks:      hooks,
	}
}

func (h ChangeTransactionTermsCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeTransactionTermsCommand,
) (*transaction.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	txRepo := uow.TransactionRepository()

	tx, err := txRepo.Get(ctx, cmd.TransactionID())
	if err != nil {
		return nil, err
	}
	if err = tx.Authorize(cmd.Principal()); err != nil {
		return nil, err
	}
	if expected, ok := cmd.ExpectedVersion(); ok && tx.Version() != expected {
		return nil, errs.NewConcurrencyConflictError("transaction", tx.ID().String(), expected)
	}

	available := tx.Quantity()
	if cmd.Quantity() != nil {
		listing, err := h.catalog.GetListing(ctx, tx.ProductID())
		if err != nil {
			return nil, err
		}
		available = listing.Available
	}

	readVersion := tx.Version()
	if err = tx.ChangeTerms(cmd.Principal(), cmd.Price(), cmd.Quantity(), available, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = txRepo.Update(ctx, tx, readVersion); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.hooks.TermsChanged(context.WithoutCancel(ctx), tx, cmd.Principal())
	return tx, nil
}
