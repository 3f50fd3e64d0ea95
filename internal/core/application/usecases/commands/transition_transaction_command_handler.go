package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

// TransitionTransactionCommandHandler runs the ledger state machine.
//
// In one unit of work it
//   - re-reads the transaction and applies the guarded transition,
//   - writes it back only if the stored version is still the one read,
//   - opens the logistics record on acceptance,
//   - accumulates the seller company's impact on completion.
//
// Hooks run after the commit. A lost race returns errs.ErrConcurrencyConflict
// and leaves everything untouched; retrying is up to the caller (see RetryOnConflict).
type TransitionTransactionCommandHandler struct {
	uowFactory UoWFactory
	calculator services.ImpactCalculator
	hooks      TransactionHooks
}

func NewTransitionTransactionCommandHandler(
	uowFactory UoWFactory,
	calculator services.ImpactCalculator,
	hooks TransactionHooks,
) TransitionTransactionCommandHandler {
	return TransitionTransactionCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
		hooks:      hooks,
	}
}

func (h TransitionTransactionCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionTransactionCommand,
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

	if expected, ok := cmd.ExpectedVersion(); ok && tx.Version() != expected {
		if err = tx.Authorize(cmd.Principal()); err != nil {
			return nil, err
		}
		return nil, errs.NewConcurrencyConflictError("transaction", tx.ID().String(), expected)
	}

	now := time.Now().UTC()
	readVersion := tx.Version()
	from := tx.Status()

	if err = tx.Transition(cmd.Principal(), cmd.Target(), cmd.Reason(), now); err != nil {
		return nil, err
	}

	if err = txRepo.Update(ctx, tx, readVersion); err != nil {
		return nil, err
	}

	var spawned *logistics.Logistics
	switch tx.Status() {
	case transaction.Accepted:
		spawned, err = logistics.NewLogistics(kernel.NewUUID(), tx.ID(), cmd.LogisticsDetails(), now)
		if err != nil {
			return nil, err
		}
		if err = uow.LogisticsRepository().Add(ctx, spawned); err != nil {
			return nil, err
		}
	case transaction.Completed:
		if err = h.accumulateImpact(ctx, uow, tx, now); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.hooks.TransactionTransitioned(context.WithoutCancel(ctx), tx, from, cmd.Principal(), spawned)
	return tx, nil
}

func (h TransitionTransactionCommandHandler) accumulateImpact(
	ctx context.Context,
	uow UoW,
	tx *transaction.Transaction,
	now time.Time,
) error {
	companyID := tx.SellerCompanyID()
	if companyID == nil {
		return nil
	}

	delta, err := h.calculator.Calculate(tx)
	if err != nil {
		return err
	}

	return uow.ImpactRepository().Accumulate(ctx, *companyID, delta, now)
}
