package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/logistics"
)

type AssignCarrierCommandHandler struct {
	uowFactory LogisticsUoWFactory
}

func NewAssignCarrierCommandHandler(uowFactory LogisticsUoWFactory) AssignCarrierCommandHandler {
	return AssignCarrierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle updates the carrier data of a non-terminal delivery. A tracking number
// already used by another delivery is rejected by the repository.
func (h AssignCarrierCommandHandler) Handle(ctx context.Context, cmd AssignCarrierCommand) (*logistics.Logistics, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := requireCarrierIntegration(cmd.Principal(), "assign carrier"); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.LogisticsRepository()

	record, err := repo.Get(ctx, cmd.LogisticsID())
	if err != nil {
		return nil, err
	}

	readVersion := record.Version()
	err = record.AssignCarrier(
		cmd.Carrier(),
		cmd.TrackingNumber(),
		cmd.Cost(),
		cmd.EstimatedDeliveryAt(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, record, readVersion); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return record, nil
}
